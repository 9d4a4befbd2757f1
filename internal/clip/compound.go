package clip

import (
	"context"
	"fmt"

	ilog "github.com/MokshC/Compound/internal/log"
)

// Request is a create compound clip command ready for the host.
type Request struct {
	Items   []Item
	Options CompoundOptions
}

// CompoundName is the name of the compound clip built from the item. Items
// with media get prefix in front of their name.
func (c *Context) CompoundName(prefix string) string {
	if c.media == nil {
		return c.Name
	}
	return prefix + c.Name
}

// Plan builds the compound clip request for the item.
func (c *Context) Plan(prefix string) (Request, error) {
	start, err := c.StartTimecode()
	if err != nil {
		return Request{}, err
	}
	return Request{
		Items: []Item{c.Item},
		Options: CompoundOptions{
			StartTimecode: start.String(),
			Name:          c.CompoundName(prefix),
		},
	}, nil
}

// Create gathers the selected item, plans its compound clip and sends the
// command to the host.
func Create(ctx context.Context, host Host, opts Options) (Request, error) {
	logger := ilog.WithComponentFromContext(ctx, "clip")

	c, err := Gather(ctx, host, opts)
	if err != nil {
		return Request{}, err
	}
	req, err := c.Plan(opts.NamePrefix)
	if err != nil {
		return Request{}, err
	}
	if err := host.CreateCompoundClip(ctx, req.Items, req.Options); err != nil {
		return Request{}, fmt.Errorf("create compound clip for %s: %w", c.Item, err)
	}
	logger.Info().
		Str(ilog.FieldItem, string(c.Item)).
		Str(ilog.FieldStartTC, req.Options.StartTimecode).
		Str(ilog.FieldCompoundName, req.Options.Name).
		Msg("compound clip requested")
	return req, nil
}
