package hooks

import (
	"runtime/debug"
	"strings"

	"github.com/sirupsen/logrus"
)

// sourceRoot is the path element after which source locations are reported.
const sourceRoot = "ocdb-client/"

type contextHook struct{}

// NewContextHook returns a hook that adds the file:line of the logging call
// site to every entry.
func NewContextHook() logrus.Hook {
	return contextHook{}
}

func (hook contextHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (hook contextHook) Fire(entry *logrus.Entry) error {
	if loc := callSite(string(debug.Stack())); loc != "" {
		entry.Data["file:line"] = loc
	}
	return nil
}

// callSite finds the first source line below logrus in a goroutine stack dump.
// Stack dumps alternate function and file lines, so once logrus frames are
// passed every second line is a file.
func callSite(stack string) string {
	lines := strings.Split(stack, "\n")
	inLogrus := false
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if strings.Contains(line, "sirupsen/logrus") {
			inLogrus = true
			continue
		}
		if !inLogrus || !strings.HasPrefix(lines[i], "\t") {
			continue
		}
		parts := strings.Split(line, sourceRoot)
		loc := parts[len(parts)-1]
		if j := strings.LastIndex(loc, " +0x"); j >= 0 {
			loc = loc[:j]
		}
		return loc
	}
	return ""
}
