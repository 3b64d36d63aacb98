package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	decisiongraph "github.com/ritamzico/decisiongraph"
	"github.com/ritamzico/decisiongraph/internal/dgraph"
)

const helpText = `decisiongraph interactive REPL

Commands:
  load <name> <tagspace.json> <program.json>   Compile a questionnaire
  use <name>                                   Set the active questionnaire
  list                                         List loaded questionnaires
  run                                          Start an interpreter and answer it interactively
  analyze <target>                             Show the shortest question path to a node id
  help                                         Show this help message
  exit / quit                                  Exit the REPL
`

func main() {
	graphs := make(map[string]*decisiongraph.Questionnaire)
	var active string

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("decisiongraph — compile and run decision-graph questionnaires")
	fmt.Println(`Type "help" for available commands.`)
	fmt.Println()

	for {
		if active != "" {
			fmt.Printf("[%s]> ", active)
		} else {
			fmt.Print("> ")
		}

		if !scanner.Scan() {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])

		switch cmd {
		case "exit", "quit":
			return

		case "help":
			fmt.Print(helpText)

		case "list":
			if len(graphs) == 0 {
				fmt.Println("(no questionnaires loaded)")
				continue
			}
			for name := range graphs {
				marker := " "
				if name == active {
					marker = "*"
				}
				fmt.Printf("  %s %s\n", marker, name)
			}

		case "load":
			if len(parts) < 4 {
				fmt.Fprintln(os.Stderr, "usage: load <name> <tagspace.json> <program.json>")
				continue
			}
			name, tagSpacePath, programPath := parts[1], parts[2], parts[3]

			q, messages, err := decisiongraph.LoadFiles(tagSpacePath, programPath)
			for _, m := range messages {
				fmt.Printf("  %s: %s\n", m.Severity, m.Text)
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "error compiling %q: %v\n", name, err)
				continue
			}

			graphs[name] = q
			if active == "" {
				active = name
			}
			fmt.Printf("compiled %q (%d nodes)\n", name, q.Graph.Len())

		case "use":
			if len(parts) < 2 {
				fmt.Fprintln(os.Stderr, "usage: use <name>")
				continue
			}
			name := parts[1]
			if _, ok := graphs[name]; !ok {
				fmt.Fprintf(os.Stderr, "no questionnaire named %q\n", name)
				continue
			}
			active = name
			fmt.Printf("active questionnaire set to %q\n", name)

		case "run":
			q, ok := graphs[active]
			if !ok {
				fmt.Fprintln(os.Stderr, "no active questionnaire — use 'load' or 'use' first")
				continue
			}
			if err := runInteractive(q, scanner); err != nil {
				fmt.Fprintf(os.Stderr, "run error: %v\n", err)
			}

		case "analyze":
			q, ok := graphs[active]
			if !ok {
				fmt.Fprintln(os.Stderr, "no active questionnaire — use 'load' or 'use' first")
				continue
			}
			if len(parts) < 2 {
				fmt.Fprintln(os.Stderr, "usage: analyze <target>")
				continue
			}
			path, err := q.ShortestQuestionPath(dgraph.NodeID(parts[1]))
			if err != nil {
				fmt.Fprintf(os.Stderr, "analyze error: %v\n", err)
				continue
			}
			if path == nil {
				fmt.Println("(unreachable)")
				continue
			}
			ids := make([]string, len(path))
			for i, id := range path {
				ids[i] = string(id)
			}
			fmt.Println(strings.Join(ids, " -> "))

		default:
			fmt.Fprintf(os.Stderr, "unknown command %q — type 'help' for a list\n", cmd)
		}
	}
}

// runInteractive starts an interpreter over q and prompts the user for
// an answer at every Ask/Consider node it stops at, until the run
// terminates, then prints the trace and the final accumulated value.
func runInteractive(q *decisiongraph.Questionnaire, scanner *bufio.Scanner) error {
	it, err := q.NewRun()
	if err != nil {
		return err
	}

	for !it.Terminated() {
		node, err := it.CurrentNode()
		if err != nil {
			return err
		}

		switch n := node.(type) {
		case *dgraph.AskNode:
			fmt.Printf("? %s\n", n.Text)
		case *dgraph.ConsiderNode:
			fmt.Printf("? (considering %s)\n", strings.Join(n.Slot, "."))
		default:
			return fmt.Errorf("interpreter paused at non-interactive node %v", n.ID())
		}

		fmt.Print("> ")
		if !scanner.Scan() {
			return nil
		}
		if err := it.Answer(scanner.Text()); err != nil {
			fmt.Fprintf(os.Stderr, "answer rejected: %v\n", err)
			continue
		}
	}

	traceJSON, err := decisiongraph.MarshalTrace(it)
	if err != nil {
		return err
	}
	accJSON, err := decisiongraph.MarshalAccumulator(it)
	if err != nil {
		return err
	}

	if it.Rejected() {
		fmt.Println("rejected.")
	} else {
		fmt.Println("done.")
	}
	fmt.Println("trace:")
	fmt.Println(string(traceJSON))
	fmt.Println("accumulated value:")
	fmt.Println(string(accJSON))
	return nil
}
