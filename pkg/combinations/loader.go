package combinations

import (
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/robaho/go-combinations/pkg/common"
	"gopkg.in/yaml.v3"
)

var InvalidRule = errors.New("invalid rule")

// LegSpec is a leg as written in a rule file. Offsets are written as repeated signs ("+", "--"),
// expiration durations as an amount and a unit ("3m", "1q").
type LegSpec struct {
	Type             string `xml:"type,attr" yaml:"type"`
	Ratio            string `xml:"ratio,attr" yaml:"ratio"`
	Strike           string `xml:"strike,attr" yaml:"strike,omitempty"`
	StrikeOffset     string `xml:"strike_offset,attr" yaml:"strike_offset,omitempty"`
	Expiration       string `xml:"expiration,attr" yaml:"expiration,omitempty"`
	ExpirationOffset string `xml:"expiration_offset,attr" yaml:"expiration_offset,omitempty"`
}

// CombinationSpec is a combination as written in a rule file
type CombinationSpec struct {
	Name        string    `yaml:"name"`
	Cardinality string    `yaml:"cardinality"`
	MinCount    int       `yaml:"mincount,omitempty"`
	Legs        []LegSpec `yaml:"legs"`
}

type xmlRules struct {
	Combinations []xmlCombination `xml:",any"`
}

type xmlCombination struct {
	Name string  `xml:"name,attr"`
	Legs xmlLegs `xml:"legs"`
}

type xmlLegs struct {
	Cardinality string    `xml:"cardinality,attr"`
	MinCount    string    `xml:"mincount,attr"`
	Legs        []LegSpec `xml:",any"`
}

type yamlRules struct {
	Combinations []CombinationSpec `yaml:"combinations"`
}

// Load reads a rule file, the format is chosen by extension (.xml, .yaml or .yml)
func Load(path string) (*Combinations, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open rules")
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return LoadXML(f)
	case ".yaml", ".yml":
		return LoadYAML(f)
	}
	return nil, errors.Errorf("unsupported rule file %s", path)
}

// LoadXML reads rules in the <combinations><combination name=".."><legs cardinality=".."> form
func LoadXML(r io.Reader) (*Combinations, error) {
	var doc xmlRules
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "unable to parse xml rules")
	}
	specs := make([]CombinationSpec, 0, len(doc.Combinations))
	for _, xc := range doc.Combinations {
		spec := CombinationSpec{Name: xc.Name, Cardinality: xc.Legs.Cardinality, Legs: xc.Legs.Legs}
		if xc.Legs.MinCount != "" {
			n, err := strconv.Atoi(xc.Legs.MinCount)
			if err != nil {
				return nil, errors.Wrapf(InvalidRule, "%s: mincount %q", xc.Name, xc.Legs.MinCount)
			}
			spec.MinCount = n
		}
		specs = append(specs, spec)
	}
	return Build(specs)
}

func LoadYAML(r io.Reader) (*Combinations, error) {
	var doc yamlRules
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "unable to parse yaml rules")
	}
	return Build(doc.Combinations)
}

// Build converts rule file specs into a library
func Build(specs []CombinationSpec) (*Combinations, error) {
	definitions := make([]Combination, 0, len(specs))
	for _, spec := range specs {
		def, err := spec.build()
		if err != nil {
			return nil, err
		}
		definitions = append(definitions, def)
	}
	return New(definitions)
}

func (spec *CombinationSpec) build() (Combination, error) {
	cardinality, err := ParseCardinality(spec.Cardinality)
	if err != nil {
		return Combination{}, errors.Wrap(err, spec.Name)
	}
	def := Combination{Name: spec.Name, Cardinality: cardinality}
	for i := range spec.Legs {
		leg, err := spec.Legs[i].build()
		if err != nil {
			return Combination{}, errors.Wrapf(err, "%s: leg %d", spec.Name, i+1)
		}
		def.Legs = append(def.Legs, leg)
	}
	if cardinality == More {
		def.MinCount = spec.MinCount
	} else {
		def.MinCount = len(def.Legs)
	}
	return def, nil
}

func (spec *LegSpec) build() (Leg, error) {
	var leg Leg

	if len(spec.Type) != 1 {
		return leg, errors.Wrapf(common.UnknownInstrument, "%q", spec.Type)
	}
	leg.Type = common.ParseInstrumentType(spec.Type[0])
	if leg.Type == common.Unknown {
		return leg, errors.Wrapf(common.UnknownInstrument, "%q", spec.Type)
	}

	switch spec.Ratio {
	case "+", "-":
		leg.Ratio = SignRatio{Long: spec.Ratio == "+"}
	default:
		value, err := common.ParseRatio(spec.Ratio)
		if err != nil {
			return leg, errors.Wrapf(InvalidRule, "ratio %q", spec.Ratio)
		}
		leg.Ratio = ExactRatio{Value: value}
	}

	leg.Strike = NoConstraint{}
	if spec.Strike != "" {
		leg.Strike = Var{Tag: firstRune(spec.Strike)}
	} else if spec.StrikeOffset != "" {
		offset, err := parseOffset(spec.StrikeOffset)
		if err != nil {
			return leg, errors.Wrap(err, "strike_offset")
		}
		leg.Strike = offset
	}

	leg.Expiration = NoConstraint{}
	if spec.Expiration != "" {
		leg.Expiration = Var{Tag: firstRune(spec.Expiration)}
	} else if spec.ExpirationOffset != "" {
		var err error
		switch spec.ExpirationOffset[0] {
		case '+', '-', '0':
			leg.Expiration, err = parseOffset(spec.ExpirationOffset)
		default:
			leg.Expiration, err = parseDuration(spec.ExpirationOffset)
		}
		if err != nil {
			return leg, errors.Wrap(err, "expiration_offset")
		}
	}
	return leg, nil
}

// parseOffset reads "0" or a run of one sign character, the length of the run is the distance
func parseOffset(s string) (Offset, error) {
	if s == "0" {
		return Offset{}, nil
	}
	sign := s[0]
	if sign != '+' && sign != '-' {
		return Offset{}, errors.Wrapf(InvalidRule, "offset %q", s)
	}
	for i := 1; i < len(s); i++ {
		if s[i] != sign {
			return Offset{}, errors.Wrapf(InvalidRule, "offset %q", s)
		}
	}
	if sign == '-' {
		return Offset{Steps: -len(s)}, nil
	}
	return Offset{Steps: len(s)}, nil
}

func parseDuration(s string) (DurationOffset, error) {
	unit, ok := common.ParseUnit(s[len(s)-1])
	if !ok {
		return DurationOffset{}, errors.Wrapf(InvalidRule, "duration unit in %q", s)
	}
	amount, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || amount < 0 {
		return DurationOffset{}, errors.Wrapf(InvalidRule, "duration %q", s)
	}
	return DurationOffset{Amount: amount, Unit: unit}, nil
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
