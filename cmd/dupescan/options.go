package main

// GNU-style option parsing: long options bind values with = (--format=json),
// short options combine (-eq), repeat to count (-vvv), and claim the nearest
// free argument as a value, so flags and roots can appear in any order.

import (
	"fmt"
	"strconv"
	"strings"
)

// OptionType selects how an option's value is interpreted
type OptionType int

const (
	OptionTypeBool OptionType = iota
	OptionTypeString
	OptionTypeInt
)

// optionSpec describes a single defined option
type optionSpec struct {
	long     string
	short    string
	kind     OptionType
	fallback string
	help     string
}

// ParsedOptions holds the defined options and the results of Parse
type ParsedOptions struct {
	specs    map[string]*optionSpec // keyed by long name
	byShort  map[string]string      // short letter to long name
	values   map[string]string
	explicit map[string]bool
	operands []string
}

// NewParsedOptions creates an empty option set
func NewParsedOptions() *ParsedOptions {
	return &ParsedOptions{
		specs:    make(map[string]*optionSpec),
		byShort:  make(map[string]string),
		values:   make(map[string]string),
		explicit: make(map[string]bool),
		operands: []string{},
	}
}

// DefineOption registers an option under its long name with an optional
// one-letter short form and a default value
func (p *ParsedOptions) DefineOption(long, short string, kind OptionType, fallback, help string) {
	p.specs[long] = &optionSpec{long: long, short: short, kind: kind, fallback: fallback, help: help}
	if short != "" {
		p.byShort[short] = long
	}
	if fallback != "" {
		p.values[long] = fallback
	}
}

// Parse walks the argument list, binding option values and collecting
// operands. Arguments claimed as option values are tracked so the operand
// pass skips them.
func (p *ParsedOptions) Parse(args []string) error {
	claimed := make([]bool, len(args))

	for i, arg := range args {
		if claimed[i] {
			continue
		}
		switch {
		case strings.HasPrefix(arg, "--"):
			claimed[i] = true
			if err := p.applyLong(strings.TrimPrefix(arg, "--")); err != nil {
				return err
			}
		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			claimed[i] = true
			if err := p.applyShortRun(strings.TrimPrefix(arg, "-"), args, i, claimed); err != nil {
				return err
			}
		}
	}

	for i, arg := range args {
		if !claimed[i] {
			p.operands = append(p.operands, arg)
		}
	}
	return nil
}

// applyLong handles the --name and --name=value forms
func (p *ParsedOptions) applyLong(arg string) error {
	name, value, _ := strings.Cut(arg, "=")
	spec, ok := p.specs[name]
	if !ok {
		return fmt.Errorf("unknown option: --%s", name)
	}

	switch spec.kind {
	case OptionTypeBool:
		switch value {
		case "", "true", "1":
			p.record(name, "true")
		case "false", "0":
			p.record(name, "false")
		default:
			return fmt.Errorf("invalid boolean value for --%s: %s", name, value)
		}
	case OptionTypeInt:
		if value == "" {
			return fmt.Errorf("option --%s requires a value (use --%s=value)", name, name)
		}
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("invalid integer value for --%s: %s", name, value)
		}
		p.record(name, value)
	default:
		if value == "" {
			return fmt.Errorf("option --%s requires a value (use --%s=value)", name, name)
		}
		p.record(name, value)
	}
	return nil
}

// applyShortRun handles one dash-prefixed run of short options (-q, -eq,
// -vvv). A repeated integer option uses the repeat count as its value; a
// single occurrence claims the next free integer argument, or means 1.
func (p *ParsedOptions) applyShortRun(run string, args []string, at int, claimed []bool) error {
	repeats := make(map[string]int)
	for _, letter := range run {
		long, ok := p.byShort[string(letter)]
		if !ok {
			return fmt.Errorf("unknown option: -%s", string(letter))
		}
		repeats[long]++
	}

	for long, count := range repeats {
		spec := p.specs[long]
		switch spec.kind {
		case OptionTypeBool:
			p.record(long, "true")
		case OptionTypeInt:
			value := "1"
			if count > 1 {
				value = strconv.Itoa(count)
			} else if arg, ok := claimFreeArg(args, at, claimed, isInteger); ok {
				value = arg
			}
			p.record(long, value)
		default:
			arg, ok := claimFreeArg(args, at, claimed, nil)
			if !ok {
				return fmt.Errorf("option -%s requires a value", spec.short)
			}
			p.record(long, arg)
		}
	}
	return nil
}

// claimFreeArg claims the first argument after position at that is still
// unclaimed, is not an option, and passes accept (nil accepts anything)
func claimFreeArg(args []string, at int, claimed []bool, accept func(string) bool) (string, bool) {
	for i := at + 1; i < len(args); i++ {
		if claimed[i] || strings.HasPrefix(args[i], "-") {
			continue
		}
		if accept != nil && !accept(args[i]) {
			continue
		}
		claimed[i] = true
		return args[i], true
	}
	return "", false
}

func isInteger(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

// record stores an explicitly supplied value
func (p *ParsedOptions) record(name, value string) {
	p.values[name] = value
	p.explicit[name] = true
}

// GetString returns the value of a string option ("" when unset)
func (p *ParsedOptions) GetString(name string) string {
	return p.values[name]
}

// GetInt returns the value of an integer option (0 when unset)
func (p *ParsedOptions) GetInt(name string) int {
	n, err := strconv.Atoi(p.values[name])
	if err != nil {
		return 0
	}
	return n
}

// GetBool returns the value of a boolean option
func (p *ParsedOptions) GetBool(name string) bool {
	return p.values[name] == "true"
}

// IsSet reports whether the option was given on the command line rather
// than holding its default
func (p *ParsedOptions) IsSet(name string) bool {
	return p.explicit[name]
}

// GetArgs returns the operands left over after option parsing
func (p *ParsedOptions) GetArgs() []string {
	return p.operands
}
