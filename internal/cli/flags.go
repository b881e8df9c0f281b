package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/spf13/pflag"
)

// statusValue is a pflag.Value that only accepts known task statuses.
type statusValue struct {
	status *domain.TaskStatus
}

var _ pflag.Value = statusValue{}

func newStatusValue(def domain.TaskStatus, p *domain.TaskStatus) statusValue {
	*p = def
	return statusValue{status: p}
}

func (v statusValue) String() string {
	if v.status == nil {
		return ""
	}
	return string(*v.status)
}

func (v statusValue) Set(s string) error {
	parsed, err := domain.ParseTaskStatus(s)
	if err != nil {
		return err
	}
	*v.status = parsed
	return nil
}

func (v statusValue) Type() string { return "status" }

func statusUsage() string {
	return "Task status (" + strings.ToLower(strings.Join(domain.StatusNames(), "|")) + ")"
}

// parseID parses a positional task id argument.
func parseID(name, arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a non-negative integer", name, arg)
	}
	return id, nil
}
