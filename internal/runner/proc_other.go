//go:build !unix

package runner

import "os/exec"

func setProcAttrs(cmd *exec.Cmd) {}

func killProcess(cmd *exec.Cmd) error {
	return cmd.Process.Kill()
}
