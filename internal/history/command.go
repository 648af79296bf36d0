package history

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

const (
	commandUseConstant              = "history"
	commandShortDescriptionConstant = "List recent target runs"
	commandLongDescriptionConstant  = "history lists recorded target invocations, newest first, with exit codes and durations."
	limitFlagNameConstant           = "limit"
	limitFlagUsageConstant          = "Maximum number of runs to list"
	defaultListLimitConstant        = 20
	storeMissingMessageConstant     = "history store not configured"
	headerRowConstant               = "WHEN\tTARGET\tEXIT\tDURATION (MS)\tRESULT\t"
	recordRowTemplateConstant       = "%s\t%s\t%d\t%d\t%s\t\n"
	succeededResultValueConstant    = "ok"
	failedResultValueConstant       = "failed"
	suppressedResultValueConstant   = "suppressed"
	recordTimestampDisplayLayout    = time.RFC3339
)

// ErrStoreNotConfigured indicates the history store dependency was missing.
var ErrStoreNotConfigured = errors.New(storeMissingMessageConstant)

// StoreProvider yields the history store for command execution.
type StoreProvider func() (Store, error)

// CommandBuilder assembles the history command.
type CommandBuilder struct {
	StoreProvider StoreProvider
}

// Build constructs the history command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}
	command.Flags().Int(limitFlagNameConstant, defaultListLimitConstant, limitFlagUsageConstant)
	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
	if builder.StoreProvider == nil {
		return ErrStoreNotConfigured
	}
	store, storeError := builder.StoreProvider()
	if storeError != nil {
		return storeError
	}
	if store == nil {
		return ErrStoreNotConfigured
	}

	listLimit, limitError := command.Flags().GetInt(limitFlagNameConstant)
	if limitError != nil {
		return limitError
	}

	records, listError := store.List(listLimit)
	if listError != nil {
		return listError
	}

	writer := tabwriter.NewWriter(command.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(writer, headerRowConstant)
	for _, record := range records {
		fmt.Fprintf(writer, recordRowTemplateConstant,
			record.StartedAt.Format(recordTimestampDisplayLayout),
			record.TargetName,
			record.ExitCode,
			record.DurationMilliseconds,
			recordResultValue(record),
		)
	}
	return writer.Flush()
}

func recordResultValue(record RunRecord) string {
	if record.FailureSuppressed {
		return suppressedResultValueConstant
	}
	if record.Succeeded {
		return succeededResultValueConstant
	}
	return failedResultValueConstant
}
