package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mrdg/polysynth/audio"
	"github.com/mrdg/polysynth/dub"
	"github.com/mrdg/polysynth/tuning"
	"golang.org/x/term"
)

type env struct {
	props  *audio.Props
	synth  *audio.Input // notes and parameters typed at the prompt
	seq    *audio.Input // notes played by loops, written from the audio thread
	engine *audio.Engine
	tuning *tuning.Table
	out    io.Writer
}

func (e *env) eval(input string) (dub.Node, error) {
	command, err := dub.Parse(input)
	if err != nil {
		return nil, err
	}
	name := string(command.Name)
	for _, cmd := range commands {
		if name != cmd.name {
			continue
		}
		if n := len(command.Args); n < cmd.minArgs || (cmd.maxArgs >= 0 && n > cmd.maxArgs) {
			return nil, fmt.Errorf("%s: wrong number of arguments: %s, got %v", cmd.name, cmd.arity(), n)
		}
		result, err := cmd.run(e, command.Args)
		if err != nil {
			return result, fmt.Errorf("%s error: %w", cmd.name, err)
		}
		return result, nil
	}
	return nil, fmt.Errorf("unknown command: %s", name)
}

// repl reads commands from in. A terminal gets line editing and history, anything else
// is read line by line as a script.
func repl(env *env, in *os.File) error {
	if !term.IsTerminal(int(in.Fd())) {
		return script(env, in)
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:       "> ",
		AutoComplete: completer(),
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			fmt.Fprintln(env.out, err)
			continue
		}
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		env.print(env.eval(line))
	}
}

func script(env *env, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		env.print(env.eval(line))
	}
	return scanner.Err()
}

func (e *env) print(result dub.Node, err error) {
	if err != nil {
		fmt.Fprintln(e.out, err)
	} else if result != nil {
		fmt.Fprintln(e.out, result)
	}
}

func completer() *readline.PrefixCompleter {
	params := make([]readline.PrefixCompleterInterface, 0, len(audio.ParamNames()))
	for _, name := range audio.ParamNames() {
		params = append(params, readline.PcItem(name))
	}
	presets := make([]readline.PrefixCompleterInterface, 0, len(audio.Presets()))
	for _, name := range audio.Presets() {
		presets = append(presets, readline.PcItem(name))
	}
	items := make([]readline.PrefixCompleterInterface, 0, len(commands))
	for _, cmd := range commands {
		switch cmd.name {
		case "set", "get":
			items = append(items, readline.PcItem(cmd.name, params...))
		case "preset":
			items = append(items, readline.PcItem(cmd.name, presets...))
		default:
			items = append(items, readline.PcItem(cmd.name))
		}
	}
	return readline.NewPrefixCompleter(items...)
}

type command struct {
	name    string
	run     func(*env, []dub.Node) (dub.Node, error)
	minArgs int
	maxArgs int // -1 for no limit
}

func (c command) arity() string {
	switch {
	case c.maxArgs < 0:
		return fmt.Sprintf("need at least %d", c.minArgs)
	case c.minArgs == c.maxArgs:
		return fmt.Sprintf("want %d", c.minArgs)
	default:
		return fmt.Sprintf("want %d to %d", c.minArgs, c.maxArgs)
	}
}

func readArgs(args []dub.Node, slots ...interface{}) error {
	if len(args) != len(slots) {
		return errors.New("not enough arguments")
	}
	for n, arg := range args {
		dest := slots[n]
		switch p := dest.(type) {
		case *string:
			switch s := arg.(type) {
			case dub.String:
				*p = string(s)
			case dub.Identifier:
				*p = string(s)
			default:
				return fmt.Errorf("argument error: expected a string or identifier")
			}
		case *float64:
			switch v := arg.(type) {
			case dub.Int:
				*p = float64(v)
			case dub.Float:
				*p = float64(v)
			default:
				return fmt.Errorf("argument error: expected a number")
			}
		case *int:
			n, ok := arg.(dub.Int)
			if !ok {
				return fmt.Errorf("argument error: expected an integer")
			}
			*p = int(n)
		case *[]int:
			notes, err := readNotes(arg)
			if err != nil {
				return err
			}
			*p = notes
		case *dub.Array:
			arr, ok := arg.(dub.Array)
			if !ok {
				return fmt.Errorf("argument error: expected an array")
			}
			*p = arr
		case *dub.MatchExpr:
			expr, ok := arg.(dub.MatchExpr)
			if !ok {
				return fmt.Errorf("argument error: expected a match expression")
			}
			*p = expr
		default:
			panic("readArgs: unhandled destination type: " + fmt.Sprint(p))
		}
	}
	return nil
}

// readNotes accepts a single note or a tuple of notes.
func readNotes(arg dub.Node) ([]int, error) {
	switch v := arg.(type) {
	case dub.Int:
		return []int{int(v)}, nil
	case dub.Tuple:
		notes := make([]int, 0, len(v))
		for _, item := range v {
			n, ok := item.(dub.Int)
			if !ok {
				return nil, fmt.Errorf("argument error: %v is not a note", item)
			}
			notes = append(notes, int(n))
		}
		return notes, nil
	default:
		return nil, fmt.Errorf("argument error: expected a note or a tuple of notes")
	}
}
