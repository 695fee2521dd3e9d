// Package rules applies line rules (drop, replace, insert) to a sequence of
// lines in one forward pass and loads rule configuration from JSONC files.
package rules

import (
	"fmt"
	"regexp"

	"github.com/calvinalkan/vecscan/pkg/vecscan"
)

// RuleSet is a validated, compiled [Config].
type RuleSet struct {
	rules     []compiledRule
	stopAfter int
}

type compiledRule struct {
	Rule

	re *regexp.Regexp
}

// Compile validates cfg and compiles its patterns.
func Compile(cfg Config) (*RuleSet, error) {
	if cfg.StopAfter < 0 {
		return nil, fmt.Errorf("%w, got %d", ErrNegativeStopAfter, cfg.StopAfter)
	}

	set := &RuleSet{
		rules:     make([]compiledRule, 0, len(cfg.Rules)),
		stopAfter: cfg.StopAfter,
	}

	for i, rule := range cfg.Rules {
		compiled, err := compileRule(rule)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i+1, ruleLabel(rule), err)
		}

		set.rules = append(set.rules, compiled)
	}

	return set, nil
}

func compileRule(rule Rule) (compiledRule, error) {
	if rule.Match == "" {
		return compiledRule{}, ErrMatchEmpty
	}

	if rule.Limit < 0 {
		return compiledRule{}, fmt.Errorf("%w, got %d", ErrNegativeLimit, rule.Limit)
	}

	switch rule.Action {
	case ActionDrop, ActionReplace:
	case ActionInsertBefore, ActionInsertAfter:
		if len(rule.Lines) == 0 {
			return compiledRule{}, ErrLinesRequired
		}
	default:
		return compiledRule{}, fmt.Errorf("%w: %q", ErrInvalidAction, rule.Action)
	}

	re, err := regexp.Compile(rule.Match)
	if err != nil {
		return compiledRule{}, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}

	return compiledRule{Rule: rule, re: re}, nil
}

func ruleLabel(rule Rule) string {
	if rule.Name != "" {
		return rule.Name
	}

	return rule.Match
}

// Len returns the number of rules.
func (s *RuleSet) Len() int {
	return len(s.rules)
}

// Report summarizes one Apply run.
type Report struct {
	Visited  int // lines handed out by the scan
	Matched  int // lines that matched a rule
	Dropped  int
	Replaced int
	Inserted int  // lines added by insert rules
	Stopped  bool // scan released early because of stop_after

	// Hits counts matches per rule, in rule order.
	Hits []int

	Scan vecscan.Stats
}

// Changed reports whether the lines were modified.
func (r Report) Changed() bool {
	return r.Dropped > 0 || r.Replaced > 0 || r.Inserted > 0
}

// Apply runs one forward scan over *lines. For each line the first rule that
// matches and has not reached its limit is applied; other rules are not
// consulted. Lines inserted by rules are not matched again.
func (s *RuleSet) Apply(lines *[]string) Report {
	report := Report{Hits: make([]int, len(s.rules))}

	scan := vecscan.NewGrow(lines)

	for slot := range scan.All() {
		report.Visited++

		idx := s.match(slot.Value(), report.Hits)
		if idx < 0 {
			continue
		}

		report.Matched++
		report.Hits[idx]++

		rule := s.rules[idx]

		switch rule.Action {
		case ActionDrop:
			slot.Remove()

			report.Dropped++
		case ActionReplace:
			line := slot.Value()

			replaced := rule.re.ReplaceAllString(line, rule.With)
			if replaced != line {
				slot.Set(replaced)

				report.Replaced++
			}
		case ActionInsertBefore:
			line := slot.Remove()

			scan.Insert(rule.Lines...)
			scan.Insert(line)

			report.Inserted += len(rule.Lines)
		case ActionInsertAfter:
			scan.Insert(rule.Lines...)

			report.Inserted += len(rule.Lines)
		}

		if s.stopAfter > 0 && report.Matched >= s.stopAfter {
			report.Stopped = scan.Remaining() > 0

			break
		}
	}

	scan.Close()

	report.Scan = scan.Stats()

	return report
}

func (s *RuleSet) match(line string, hits []int) int {
	for i, rule := range s.rules {
		if rule.Limit > 0 && hits[i] >= rule.Limit {
			continue
		}

		if rule.re.MatchString(line) {
			return i
		}
	}

	return -1
}
