package pile

import (
	"fmt"
	"io"
	"os/exec"

	"github.com/llir/llvm/ir"
	"golang.org/x/sync/errgroup"
)

// BuildExecutable lowers mod to a native executable at outPath using
// clang as the backend, streaming IR text into the subprocess's stdin
// over a pipe instead of materializing it as a temp file.
func BuildExecutable(mod *ir.Module, outPath string) error {
	cmd := exec.Command("clang", "-x", "ir", "-o", outPath, "-")

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
		out, err := cmd.CombinedOutput()
		if err != nil {
			return fmt.Errorf("clang: %w: %s", err, out)
		}
		return nil
	})

	return errs.Wait()
}
