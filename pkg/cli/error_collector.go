package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/actionlens/actionlens/pkg/logger"
)

var collectorLog = logger.New("cli:error_collector")

// ErrorCollector accumulates per-file failures across a multi-file run so
// the user sees every problem in one pass instead of one at a time. With
// failFast enabled, Add returns the first error immediately instead of
// collecting it.
type ErrorCollector struct {
	errors   []error
	failFast bool
}

// NewErrorCollector creates a collector. failFast makes Add return the
// first error instead of accumulating.
func NewErrorCollector(failFast bool) *ErrorCollector {
	return &ErrorCollector{failFast: failFast}
}

// Add records an error. In fail-fast mode the error is returned to the
// caller for immediate propagation; otherwise nil is returned.
func (c *ErrorCollector) Add(err error) error {
	if err == nil {
		return nil
	}
	collectorLog.Printf("Collecting error: %v", err)
	if c.failFast {
		return err
	}
	c.errors = append(c.errors, err)
	return nil
}

// HasErrors reports whether any errors were collected.
func (c *ErrorCollector) HasErrors() bool {
	return len(c.errors) > 0
}

// Count returns the number of collected errors.
func (c *ErrorCollector) Count() int {
	return len(c.errors)
}

// Error returns the collected errors joined, or nil when empty.
func (c *ErrorCollector) Error() error {
	if len(c.errors) == 0 {
		return nil
	}
	if len(c.errors) == 1 {
		return c.errors[0]
	}
	return errors.Join(c.errors...)
}

// FormattedError returns the joined errors under a count header naming the
// category, or nil when empty.
func (c *ErrorCollector) FormattedError(category string) error {
	if len(c.errors) == 0 {
		return nil
	}
	if len(c.errors) == 1 {
		return c.errors[0]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d %s errors:", len(c.errors), category)
	for _, err := range c.errors {
		sb.WriteString("\n  • ")
		sb.WriteString(err.Error())
	}
	return fmt.Errorf("%s", sb.String())
}
