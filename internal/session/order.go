package session

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"stitch/internal/logging"
	"stitch/internal/plan"
	"stitch/internal/services"
	"stitch/internal/textutil"
)

// Order copies each selected take into the output directory under an
// ordinal-prefixed name (01_clip.mp4, 02_other.mp4, ...) so the selected
// takes can be reviewed or hand-edited in script order.
func (s *Session) Order(ctx context.Context, selections []plan.Selection) ([]string, error) {
	registry, err := s.Takes(ctx)
	if err != nil {
		return nil, err
	}

	copied := make([]string, 0, len(selections))
	for i, sel := range selections {
		if err := ctx.Err(); err != nil {
			return copied, err
		}
		sourcePath := ""
		if take, ok := registry[sel.SourceID]; ok {
			sourcePath = take.SourcePath
		} else {
			// Unregistered takes can still be ordered straight from the
			// video directory when matching ran off transcript artifacts.
			candidate := filepath.Join(s.Config.Paths.VideoDir, sel.SourceID)
			if _, err := os.Stat(candidate); err == nil {
				sourcePath = candidate
			}
		}
		if sourcePath == "" {
			return copied, services.Wrap(services.ErrNotFound, "session", "order",
				fmt.Sprintf("take %s is not registered", sel.SourceID), nil)
		}

		ext := filepath.Ext(sel.SourceID)
		stem := strings.TrimSuffix(sel.SourceID, ext)
		name := fmt.Sprintf("%02d_%s%s", i+1, textutil.SanitizeFileName(stem), ext)
		target := filepath.Join(s.Config.Paths.OutputDir, name)

		if err := copyFile(sourcePath, target); err != nil {
			return copied, err
		}
		s.Logger.Info("copied ordered take",
			"source", sel.SourceID,
			"target", name,
			logging.Int("line", sel.LineNumber))
		copied = append(copied, target)
	}
	return copied, nil
}

func copyFile(source, target string) error {
	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("open %s: %w", source, err)
	}
	defer in.Close()

	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy to %s: %w", target, err)
	}
	return out.Close()
}
