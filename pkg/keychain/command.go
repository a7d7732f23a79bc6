package keychain

import (
	"os/exec"
	"strings"

	"github.com/apex/log"
	"github.com/kballard/go-shellquote"
)

const securityTool = "security"

var (
	// TrustedTools may use imported keys without an access prompt.
	TrustedTools = []string{"/usr/bin/codesign", "/usr/bin/security"}
	// PartitionIDs are granted on the key partition list (apple-tool: covers
	// codesign, apple: covers security).
	PartitionIDs = []string{"apple-tool:", "apple:"}
)

// Command is a single external tool invocation.
type Command struct {
	Name string
	Args []string
}

func (c Command) String() string {
	return shellquote.Join(append([]string{c.Name}, c.Args...)...)
}

// BestEffortCommand is a Command whose failure is expected on some systems.
// It is run with RunIgnoringFailure and never yields an error.
type BestEffortCommand struct {
	Command
}

// RunIgnoringFailure runs the command and only logs the outcome.
func (c BestEffortCommand) RunIgnoringFailure(r Runner) {
	out, err := r.Run(c.Command)
	if err != nil {
		log.Debugf("Ignoring failed '%s': %v", c, err)
	}
	if len(out) > 0 {
		log.Debugf("%s output: %s", c.Name, string(out))
	}
}

// Runner executes a Command synchronously and returns its combined output.
type Runner interface {
	Run(cmd Command) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements the Runner interface.
func (ExecRunner) Run(cmd Command) ([]byte, error) {
	return exec.Command(cmd.Name, cmd.Args...).CombinedOutput()
}

// ImportCommand builds the `security import` call that adds item to keychain
// with an empty passphrase and grants the TrustedTools access to it.
func ImportCommand(item, keychain string) Command {
	args := []string{"import", item, "-k", keychain, "-P", ""}
	for _, tool := range TrustedTools {
		args = append(args, "-T", tool)
	}
	return Command{Name: securityTool, Args: args}
}

// PartitionListCommand builds the `security set-key-partition-list` call
// required since macOS Sierra for non-interactive codesign access. Older
// systems reject it, so it is a BestEffortCommand.
func PartitionListCommand(keychain string) BestEffortCommand {
	return BestEffortCommand{Command{
		Name: securityTool,
		Args: []string{
			"set-key-partition-list",
			"-S", strings.Join(PartitionIDs, ","),
			"-k", "",
			keychain,
		},
	}}
}
