package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mrdg/piano/audio"
	"github.com/mrdg/piano/dub"
)

// piano is what the UI needs from the engine.
type piano interface {
	audio.Device
	PlayNote(note string)
	Voices() []audio.VoiceInfo
	Stats() audio.Stats
	Active() (bool, error)
	Keys() []string
}

type env struct {
	piano piano
	lib   *audio.Library
	notes []string // the keyboard, low to high, including notes without a sample
}

func (e *env) eval(input string) (string, error) {
	command, err := dub.Parse(input)
	if err != nil {
		return "", err
	}
	name := string(command.Name)
	for _, cmd := range commands {
		if name != cmd.name {
			continue
		}
		if cmd.arity < 0 {
			arity := -cmd.arity
			if len(command.Args) < arity {
				return "", fmt.Errorf("%s: wrong number of arguments: need at least %v, got %v",
					cmd.name, arity, len(command.Args))
			}
		} else if len(command.Args) != cmd.arity {
			return "", fmt.Errorf("%s: wrong number of arguments: want %v, got %v",
				cmd.name, cmd.arity, len(command.Args))
		}
		result, err := cmd.run(e, command.Args)
		if err != nil {
			return result, fmt.Errorf("%s error: %w", cmd.name, err)
		}
		return result, nil
	}
	return "", fmt.Errorf("unknown command: %s", name)
}

func (e *env) completer() *readline.PrefixCompleter {
	notes := func(string) []string { return e.lib.Notes() }
	props := func(string) []string { return e.piano.Keys() }
	var items []readline.PrefixCompleterInterface
	for _, cmd := range commands {
		switch cmd.name {
		case "play":
			items = append(items, readline.PcItem(cmd.name, readline.PcItemDynamic(notes)))
		case "set":
			items = append(items, readline.PcItem(cmd.name, readline.PcItemDynamic(props,
				readline.PcItem("oldest"), readline.PcItem("quietest"), readline.PcItem("shortest"))))
		case "preset":
			var names []readline.PrefixCompleterInterface
			for _, name := range audio.PresetNames() {
				names = append(names, readline.PcItem(name))
			}
			items = append(items, readline.PcItem(cmd.name, names...))
		case "get":
			items = append(items, readline.PcItem(cmd.name, readline.PcItemDynamic(props)))
		default:
			items = append(items, readline.PcItem(cmd.name))
		}
	}
	return readline.NewPrefixCompleter(items...)
}

func repl(env *env) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		AutoComplete:    env.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == io.EOF || errors.Is(err, readline.ErrInterrupt) {
			return nil
		}
		if err != nil {
			fmt.Println(err)
			continue
		}
		line = strings.TrimSpace(line)
		if line == "quit" || line == "exit" {
			return nil
		}
		if len(line) == 0 {
			continue
		}
		if result, err := env.eval(line); err != nil {
			fmt.Println(err)
		} else if result != "" {
			fmt.Println(result)
		}
	}
}
