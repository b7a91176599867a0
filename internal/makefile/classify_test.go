package makefile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func line(raw string) Line {
	return Line{Number: 1, Raw: raw, Text: collapseSpace(raw)}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		vars map[string]string
		want Kind
	}{
		{"recursive assign", "CC = gcc", nil, VariableAssign},
		{"simple assign", "CC := gcc", nil, VariableAssign},
		{"posix simple assign", "CC ::= gcc", nil, VariableAssign},
		{"conditional assign", "CC ?= gcc", nil, VariableAssign},
		{"append", "CFLAGS += -Wall", nil, VariableAppend},
		{"plus inside name", "a+b = c", nil, VariableAssign},
		{"rule header", "all: main.o", nil, RuleHeader},
		{"rule header no deps", "clean:", nil, RuleHeader},
		{"inline command", "run: build; ./build/app", nil, RuleHeader},
		{"target specific variable", "app: CFLAGS += -g", nil, RuleHeader},
		{"assign before colon", "URL = http://example.com", nil, VariableAssign},
		{"tab recipe", "\tgcc -o all main.o", nil, RecipeCommand},
		{"recipe with colon and equals", "\techo a: b=c", nil, RecipeCommand},
		{"spaces are not a recipe", "    gcc -o all", nil, Unclassified},
		{"directive", "include common.mk", nil, Unclassified},
		{"custom prefix", "> echo hi", map[string]string{RecipePrefixVar: ">"}, RecipeCommand},
		{"tab after custom prefix", "\techo hi", map[string]string{RecipePrefixVar: ">"}, Unclassified},
		{"empty prefix falls back to tab", "\techo hi", map[string]string{RecipePrefixVar: ""}, RecipeCommand},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(line(tt.raw), tt.vars))
		})
	}
}

func TestParseAssignment(t *testing.T) {
	tests := []struct {
		text string
		want Assignment
	}{
		{"CC = gcc", Assignment{Name: "CC", Op: OpRecursive, Value: "gcc"}},
		{"CC := gcc -O2", Assignment{Name: "CC", Op: OpSimple, Value: "gcc -O2"}},
		{"CC ::= gcc", Assignment{Name: "CC", Op: OpSimple, Value: "gcc"}},
		{"CC ?= cc", Assignment{Name: "CC", Op: OpConditional, Value: "cc"}},
		{"CC += -Wall", Assignment{Name: "CC", Op: OpAppend, Value: "-Wall"}},
		{"EMPTY =", Assignment{Name: "EMPTY", Op: OpRecursive, Value: ""}},
		{"X = a=b", Assignment{Name: "X", Op: OpRecursive, Value: "a=b"}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ParseAssignment(tt.text)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := ParseAssignment("all: main.o")
	assert.False(t, ok, "rule header is not an assignment")
}

func TestParseHeader(t *testing.T) {
	tests := []struct {
		text string
		want Header
	}{
		{"all: main.o", Header{Target: "all", Deps: "main.o"}},
		{"clean:", Header{Target: "clean"}},
		{"run: build; ./build/app", Header{Target: "run", Deps: "build", Command: "./build/app", Inline: true}},
		{"a b: c d", Header{Target: "a b", Deps: "c d"}},
		{"x: ; echo x; echo y", Header{Target: "x", Command: "echo x; echo y", Inline: true}},
		{"run: build;", Header{Target: "run", Deps: "build", Inline: true}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ParseHeader(tt.text)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := ParseHeader("CC := gcc")
	assert.False(t, ok)
}
