package main

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestRunArguments(t *testing.T) {
	tests := []struct {
		args        []string
		code        int
		description string
	}{
		{[]string{"--help", "--source=x.xml"}, 10, "help combined with other arguments"},
		{[]string{}, 10, "neither source nor input"},
		{[]string{"--source=x.xml", "--insts"}, 10, "counter without stats file"},
		{[]string{"--source=x.xml", "--stats=s.txt"}, 10, "stats file without counter"},
		{[]string{"--source=x.xml", "--bogus"}, 10, "unknown flag"},
		{[]string{"--source=x.xml", "extra"}, 10, "positional argument"},
		{[]string{"--source=x.xml", "--max-steps=-1"}, 10, "negative step limit"},
		{[]string{"--source=x.xml", "--config=/nonexistent/ippcode.toml"}, 10, "missing config file"},
		{[]string{"--source=p", "--input=p", "--stats=s", "--insts", "--insts"}, 10, "repeated counter"},
		{[]string{"--source=a.xml", "--source=b.xml"}, 10, "repeated source"},
	}

	for _, test := range tests {
		if code := run(test.args, &bytes.Buffer{}); code != test.code {
			t.Errorf("%s: expected exit code %d, got %d", test.description, test.code, code)
		}
	}
}

func TestRunHelp(t *testing.T) {
	var out bytes.Buffer
	if code := run([]string{"--help"}, &out); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(out.String(), "-source") {
		t.Errorf("expected usage, got %q", out.String())
	}
}

func TestCounterOrder(t *testing.T) {
	tests := []struct {
		args     []string
		expected []string
	}{
		{[]string{"--vars", "--stats=s", "--insts"}, []string{"vars", "insts"}},
		{[]string{"-insts", "--vars=true"}, []string{"insts", "vars"}},
		{[]string{"--insts=false", "--vars"}, []string{"vars"}},
		{[]string{"--source=insts"}, nil},
		{[]string{"--source", "--insts"}, nil},
		{[]string{"--", "--insts"}, nil},
	}

	for _, test := range tests {
		got, err := counterOrder(newFlagSet(&options{}), test.args)
		if err != nil {
			t.Errorf("%v: unexpected error: %v", test.args, err)
		}
		if !slices.Equal(got, test.expected) {
			t.Errorf("%v: expected %v, got %v", test.args, test.expected, got)
		}
	}
}

func TestCounterOrderRepeatedFlags(t *testing.T) {
	tests := [][]string{
		{"--insts", "--insts"},
		{"--vars", "-vars=true"},
		{"--source=a", "--source=b"},
		{"--input", "a", "--input=b"},
		{"--stats=s", "--insts", "--stats=t"},
		{"-v", "-v"},
	}

	for _, args := range tests {
		if _, err := counterOrder(newFlagSet(&options{}), args); err == nil {
			t.Errorf("%v: expected repeated flag to be rejected", args)
		}
	}
}

func TestRunProgram(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "prog.xml")
	input := filepath.Join(dir, "in.txt")
	stats := filepath.Join(dir, "stats.txt")

	prog := `<program language="IPPcode19">
  <instruction order="1" opcode="EXIT"><arg1 type="int">4</arg1></instruction>
</program>`
	if err := os.WriteFile(source, []byte(prog), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(input, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	args := []string{"--source=" + source, "--input=" + input, "--stats=" + stats, "--insts", "--vars"}
	if code := run(args, &bytes.Buffer{}); code != 4 {
		t.Fatalf("expected exit code 4, got %d", code)
	}

	data, err := os.ReadFile(stats)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "1\n0\n" {
		t.Errorf("expected stats written after EXIT, got %q", data)
	}
}
