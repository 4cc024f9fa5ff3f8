package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/actionlens/actionlens/pkg/analysis"
	"github.com/actionlens/actionlens/pkg/console"
	"github.com/actionlens/actionlens/pkg/logger"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var watchLog = logger.New("cli:watch_command")

// watchDebounce batches rapid editor save events into one re-validation.
const watchDebounce = 300 * time.Millisecond

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Re-validate workflow files whenever they change",
		Long: `Watch a workflow directory and re-run validation whenever a workflow file
is written. Change events are debounced so editors that save in multiple
steps trigger a single validation.

Examples:
  actionlens watch                      # Watch .github/workflows
  actionlens watch build/workflows      # Watch a custom directory`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := DefaultWorkflowDir
			if len(args) == 1 {
				dir = args[0]
			}
			noLint, _ := cmd.Flags().GetBool("no-lint")
			secretsFlag, _ := cmd.Flags().GetString("secrets")

			analyzer := analysis.NewWithOptions(analysis.Options{Lint: !noLint})
			ctx := &analysis.Context{ProjectSecrets: splitSecretNames(secretsFlag)}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("failed to create file watcher: %w", err)
			}
			defer watcher.Close()

			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, console.FormatInfoMessage(fmt.Sprintf("watching %s for changes", dir)))

			// Debounce per file: a timer is (re)armed on every event and
			// validation runs only after the file goes quiet.
			pending := make(map[string]*time.Timer)
			validated := make(chan string)

			for {
				select {
				case <-cmd.Context().Done():
					return nil

				case path := <-validated:
					result, err := validateFile(analyzer, ctx, path)
					if err != nil {
						fmt.Fprintln(cmd.ErrOrStderr(), console.FormatErrorMessage(err.Error()))
						continue
					}
					printValidationResult(out, path, result)

				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
						continue
					}
					if !isWorkflowFile(event.Name) {
						continue
					}
					path := filepath.Clean(event.Name)
					watchLog.Printf("Change detected: %s", path)
					if timer, exists := pending[path]; exists {
						timer.Reset(watchDebounce)
						continue
					}
					pending[path] = time.AfterFunc(watchDebounce, func() {
						validated <- path
					})

				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					watchLog.Printf("Watcher error: %v", err)
					fmt.Fprintln(cmd.ErrOrStderr(), console.FormatWarningMessage(err.Error()))
				}
			}
		},
	}

	cmd.Flags().Bool("no-lint", false, "Skip the actionlint pass")
	cmd.Flags().String("secrets", "", "Comma-separated list of secret names known to the project")

	return cmd
}
