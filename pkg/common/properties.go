package common

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// very, very simple properties file handling, doesn't support escaping, etc., just comments and name=value

type Properties interface {
	GetString(key string, def string) string
	GetInt(key string, def int) int
	GetBool(key string, def bool) bool
	SetString(key string, value string)
}

type properties struct {
	props map[string]string
}

func (p properties) GetString(key string, def string) string {
	key = strings.TrimSpace(key)
	v, ok := p.props[key]
	if !ok {
		return def
	}
	return v
}

func (p properties) GetInt(key string, def int) int {
	v, ok := p.props[strings.TrimSpace(key)]
	if !ok {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func (p properties) GetBool(key string, def bool) bool {
	v, ok := p.props[strings.TrimSpace(key)]
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func (p properties) SetString(key string, value string) {
	key = strings.TrimSpace(key)
	p.props[key] = value
}

func EmptyProperties() Properties {
	return properties{props: make(map[string]string)}
}

func NewProperties(file string) (Properties, error) {
	inputFile, err := os.Open(file)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open properties")
	}
	defer inputFile.Close()

	return NewPropertiesFromReader(inputFile)
}

func NewPropertiesFromReader(r io.Reader) (Properties, error) {
	p := properties{props: make(map[string]string)}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		s := scanner.Text()
		if strings.HasPrefix(s, "//") || strings.HasPrefix(s, "#") {
			continue
		}
		key, value, ok := strings.Cut(s, "=")
		if !ok {
			continue
		}
		p.props[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "unable to read properties")
	}
	return p, nil
}
