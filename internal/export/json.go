// Package export provides output formatters for generated test
// cases in JSON and human-readable text formats.
package export

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/unbound-force/forge/internal/record"
	"github.com/unbound-force/forge/internal/synth"
)

// Case is the wire form of one generated case. Values are rendered
// as display text so the document stays schema-stable no matter
// what Go types the targets traffic in.
type Case struct {
	Description string   `json:"description"`
	Inputs      []string `json:"inputs"`
	Outputs     []string `json:"outputs,omitempty"`
	ErrKind     string   `json:"err_kind,omitempty"`
}

// MemberCases groups the cases for one class member. CtorInputs
// repeats per case because constructor arguments can differ between
// cases of the same member.
type MemberCases struct {
	Member     string   `json:"member"`
	CtorInputs []string `json:"ctor_inputs,omitempty"`
	Cases      []Case   `json:"cases"`
}

// FunctionCases groups the cases for one free function.
type FunctionCases struct {
	Function string `json:"function"`
	Cases    []Case `json:"cases"`
}

// ClassCases groups one class's members.
type ClassCases struct {
	Class   string        `json:"class"`
	Members []MemberCases `json:"members"`
}

// Document is the top-level JSON output structure.
type Document struct {
	Version   string          `json:"version"`
	Module    string          `json:"module"`
	Functions []FunctionCases `json:"functions"`
	Classes   []ClassCases    `json:"classes"`
}

// Build converts an engine result into the wire document.
// Functions and classes keep generation order; class members are
// ordered constructor first, then alphabetically.
func Build(res synth.Result) Document {
	doc := Document{
		Version:   "0.1.0",
		Module:    res.Module,
		Functions: []FunctionCases{},
		Classes:   []ClassCases{},
	}

	for _, name := range res.FuncOrder {
		fc := FunctionCases{Function: name, Cases: []Case{}}
		for _, tc := range res.FuncCases[name] {
			fc.Cases = append(fc.Cases, Case{
				Description: tc.Desc,
				Inputs:      formatAll(tc.Inputs),
				Outputs:     formatAll(tc.Outputs),
				ErrKind:     tc.ErrKind,
			})
		}
		doc.Functions = append(doc.Functions, fc)
	}

	for _, name := range res.ClassOrder {
		cc := ClassCases{Class: name, Members: []MemberCases{}}
		for _, member := range memberOrder(res.ClassCases[name]) {
			mc := MemberCases{Member: member, Cases: []Case{}}
			for _, c := range res.ClassCases[name][member] {
				if mc.CtorInputs == nil {
					mc.CtorInputs = formatAll(c.CtorInputs)
				}
				mc.Cases = append(mc.Cases, Case{
					Description: c.Desc,
					Inputs:      formatAll(c.Inputs),
					Outputs:     formatAll(c.Outputs),
					ErrKind:     c.ErrKind,
				})
			}
			cc.Members = append(cc.Members, mc)
		}
		doc.Classes = append(doc.Classes, cc)
	}

	return doc
}

// WriteJSON writes the engine result as formatted JSON.
func WriteJSON(w io.Writer, res synth.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Build(res))
}

// memberOrder returns member keys with the constructor first and
// the rest alphabetical, for stable output.
func memberOrder(members map[string][]record.ClassCase) []string {
	names := make([]string, 0, len(members))
	for name := range members {
		if name != record.ConstructorName {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, ok := members[record.ConstructorName]; ok {
		names = append([]string{record.ConstructorName}, names...)
	}
	return names
}

func formatAll(vs []any) []string {
	if len(vs) == 0 {
		return nil
	}
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = record.Format(v)
	}
	return out
}
