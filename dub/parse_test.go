package dub

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	type test struct {
		input string
		want  Command
	}
	tests := []test{
		{
			input: "notes",
			want:  Command{Name: Identifier("notes")},
		},
		{
			input: "play C4 E4",
			want: Command{
				Name: Identifier("play"),
				Args: []Node{Chord{"C4"}, Chord{"E4"}},
			},
		},
		{
			input: "play C4,E4,G4 A#3",
			want: Command{
				Name: Identifier("play"),
				Args: []Node{Chord{"C4", "E4", "G4"}, Chord{"A#3"}},
			},
		},
		{
			input: "set max-voices 8",
			want: Command{
				Name: Identifier("set"),
				Args: []Node{Identifier("max-voices"), Int(8)},
			},
		},
		{
			input: `set eviction "shortest"`,
			want: Command{
				Name: Identifier("set"),
				Args: []Node{Identifier("eviction"), String("shortest")},
			},
		},
		{
			input: "set max-voices 2.0",
			want: Command{
				Name: Identifier("set"),
				Args: []Node{Identifier("max-voices"), Float(2)},
			},
		},
		{
			input: `set eviction ""`,
			want: Command{
				Name: Identifier("set"),
				Args: []Node{Identifier("eviction"), String("")},
			},
		},
	}
	for _, test := range tests {
		cmd, err := Parse(test.input)
		if err != nil {
			t.Errorf("%q: unexpected parse error: %v", test.input, err)
			continue
		}
		if !reflect.DeepEqual(test.want, cmd) {
			t.Errorf("%q: want %#v, got %#v", test.input, test.want, cmd)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"",
		"C4",
		"3 play",
		"play C4,",
		"play C4,x",
		"play C4,,E4",
		"play ,C4",
	} {
		if _, err := Parse(input); err == nil {
			t.Errorf("%q: expected parse error", input)
		}
	}
}
