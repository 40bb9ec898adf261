package pile

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/llir/llvm/ir"
	"golang.org/x/sync/errgroup"
)

// Run JIT-executes mod via the `lli` LLVM interpreter, streaming IR
// text into it the same way BuildExecutable streams it into clang,
// and wires lli's stdout/stderr straight through to the host process.
func Run(mod *ir.Module) error {
	cmd := exec.Command("lli")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	r, w := io.Pipe()
	cmd.Stdin = r

	var errs errgroup.Group
	errs.Go(func() error {
		if _, err := io.WriteString(w, mod.String()); err != nil {
			return err
		}
		return w.Close()
	})

	errs.Go(func() error {
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("lli: %w", err)
		}
		return nil
	})

	return errs.Wait()
}
