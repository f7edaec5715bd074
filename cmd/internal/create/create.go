package create

import (
	"fmt"

	"github.com/nathanhack/blockcodes/cmd/internal/tools"
	"github.com/nathanhack/blockcodes/factory"
	"github.com/nathanhack/blockcodes/linearblock/bitflip"
	"github.com/sirupsen/logrus"
)

// Save builds the code once, so bad parameters and oversized tables are caught
// now instead of by the tools, then writes the spec to filepath.
func Save(filepath string, spec factory.Spec, verbose bool) error {
	tools.SetVerbose(verbose)
	ctx := tools.SignalContext()

	code, err := factory.Make(ctx, spec)
	if err != nil {
		return err
	}
	logrus.Infof("Created %v: n=%v k=%v", spec, code.CodewordLength(), code.MessageLength())

	if c, ok := code.(*bitflip.Code); ok && c.H != nil {
		logrus.Infof("Tanner graph girth: %v", bitflip.Girth(ctx, c.H, spec.Threads))
	}

	if err := factory.Save(filepath, spec); err != nil {
		return fmt.Errorf("unable to write file: %w", err)
	}
	return nil
}
