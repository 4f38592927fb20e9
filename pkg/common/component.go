package common

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var InvalidComponent = errors.New("invalid component")
var UnknownInstrument = errors.New("unknown instrument type")

// ParseComponent parses a single leg of the form "TYPE RATIO [STRIKE] YYYY-MM-DD", the strike is
// only present for option types. On failure the zero Component is returned with the error.
func ParseComponent(s string) (Component, error) {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return Component{}, errors.Wrap(InvalidComponent, "empty leg")
	}
	if len(parts[0]) != 1 {
		return Component{}, errors.Wrapf(UnknownInstrument, "%q", parts[0])
	}
	var c Component
	c.Type = ParseInstrumentType(parts[0][0])
	if c.Type == Unknown {
		return Component{}, errors.Wrapf(UnknownInstrument, "%q", parts[0])
	}

	expected := 3
	if IsOption(c.Type) {
		expected = 4
	}
	if len(parts) != expected {
		return Component{}, errors.Wrapf(InvalidComponent, "%s leg needs %d fields, got %q", c.Type, expected, s)
	}

	ratio, err := ParseRatio(parts[1])
	if err != nil {
		return Component{}, errors.Wrapf(InvalidComponent, "bad ratio %q", parts[1])
	}
	c.Ratio = ratio

	next := 2
	if IsOption(c.Type) {
		strike, err := decimal.NewFromString(parts[next])
		if err != nil {
			return Component{}, errors.Wrapf(InvalidComponent, "bad strike %q", parts[next])
		}
		c.Strike = strike
		next++
	}

	expiration, err := ParseDate(parts[next])
	if err != nil {
		return Component{}, errors.Wrap(InvalidComponent, err.Error())
	}
	c.Expiration = expiration
	return c, nil
}

// ReadComponents reads one leg per line, skipping blank lines and comments
func ReadComponents(r io.Reader) ([]Component, error) {
	var components []Component

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		s := strings.TrimSpace(scanner.Text())
		if s == "" || strings.HasPrefix(s, "#") || strings.HasPrefix(s, "//") {
			continue
		}
		c, err := ParseComponent(s)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		components = append(components, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading legs")
	}
	return components, nil
}

// ParseComponents parses each entry of lines, used by the web and websocket surfaces
func ParseComponents(lines []string) ([]Component, error) {
	return ReadComponents(strings.NewReader(strings.Join(lines, "\n")))
}
