package cmds

import (
	"github.com/go-go-golems/glazed/pkg/cmds/values"
	"github.com/go-go-golems/papertalk/pkg/summary"
	"github.com/pkg/errors"
)

func clientFromValues(parsed *values.Values) (*summary.Client, error) {
	s := &summary.Settings{}
	if err := parsed.DecodeSectionInto(summary.SectionSlug, s); err != nil {
		return nil, errors.Wrap(err, "failed to initialize summary settings")
	}
	c, err := summary.NewClientFromSettings(s)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create summary client")
	}
	return c, nil
}
