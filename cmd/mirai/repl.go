package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"mirai/internal/i18n"
	"mirai/internal/orchestrator"
)

// runREPL 运行无 TUI 的行式回退界面。REPL 主循环就是编排循环:
// 共享状态只在这里修改,补全在本轮内同步等待。提醒在每次循环迭代
// 时扫描,而不是由独立计时器驱动。
// runREPL runs the line-based fallback interface. The REPL main loop is
// the orchestrating loop: shared state is mutated only here, and the
// completion is awaited synchronously within the turn. Reminders are
// swept on each loop iteration rather than by a separate timer.
func runREPL(orch *orchestrator.Orchestrator, historyPath string) error {
	inputReader, inputErr := newLineInput(historyPath)
	if inputErr != nil {
		fmt.Fprintf(os.Stderr, "line editor unavailable, fallback to basic input: %v\n", inputErr)
	}
	defer inputReader.Close()

	fmt.Println(i18n.T("repl.welcome"))
	fmt.Printf("model: %s\n", orch.Session().CurrentModel().Name)

	printDue := func() {
		for _, text := range orch.SweepReminders(time.Now()) {
			fmt.Printf("🔔 %s\n", text)
		}
	}

	for {
		printDue()

		line, err := inputReader.ReadLine("> ")
		if err != nil {
			switch {
			case errors.Is(err, readline.ErrInterrupt):
				fmt.Fprintln(os.Stdout)
				continue
			case errors.Is(err, io.EOF):
				fmt.Println(i18n.T("repl.goodbye"))
				return nil
			default:
				return fmt.Errorf("read input: %w", err)
			}
		}
		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if res := orch.HandleCommand(input); res.Handled {
			if res.Output != "" {
				fmt.Println(res.Output)
			}
			if res.Quit {
				fmt.Println(i18n.T("repl.goodbye"))
				return nil
			}
			continue
		}

		job := orch.Submit(input)
		if job == nil {
			continue
		}
		ans := job.Run(context.Background())
		orch.HandleAnswer(ans)
		fmt.Println(ans.Text)
	}
}
