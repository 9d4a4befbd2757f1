// Package probe implements clip.Host over media files on disk, reading
// their metadata with ffprobe. Each file is one item.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/MokshC/Compound/internal/clip"
	"github.com/MokshC/Compound/internal/journal"
	ilog "github.com/MokshC/Compound/internal/log"
)

// Prober returns the ffprobe JSON output for a file.
type Prober func(ctx context.Context, file string) ([]byte, error)

// FFprobe returns a Prober running the ffprobe binary through ffmpeg-go.
// ctx is only checked before ffprobe starts; a running probe is bounded by
// timeout alone, so callers wanting cancellation should set one.
func FFprobe(timeout time.Duration) Prober {
	return func(ctx context.Context, file string) ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := ffmpeg.ProbeWithTimeout(file, timeout, ffmpeg.KwArgs{})
		if err != nil {
			return nil, fmt.Errorf("ffprobe %s: %w", file, err)
		}
		return []byte(out), nil
	}
}

// Media is the metadata ffprobe reports for a file's first video stream.
type Media struct {
	File      string
	FPS       string
	DropFrame bool
	Timecode  string
}

// ffOutput is the part of ffprobe's JSON output we read.
type ffOutput struct {
	Streams []ffStream `json:"streams"`
	Format  ffFormat   `json:"format"`
}

type ffStream struct {
	CodecType      string `json:"codec_type"`
	CodecTagString string `json:"codec_tag_string"`
	RFrameRate     string `json:"r_frame_rate"`
	Tags           ffTags `json:"tags"`
}

type ffFormat struct {
	Tags ffTags `json:"tags"`
}

type ffTags struct {
	Timecode string `json:"timecode"`
}

// parseProbe reads ffprobe output. It returns nil Media when the file has
// no video stream.
func parseProbe(file string, info []byte) (*Media, error) {
	ff := ffOutput{}
	if err := json.Unmarshal(info, &ff); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ffprobe output: %v", err)
	}
	var video *ffStream
	for i := range ff.Streams {
		if ff.Streams[i].CodecType == "video" {
			video = &ff.Streams[i]
			break
		}
	}
	if video == nil {
		return nil, nil
	}
	if video.RFrameRate == "" {
		return nil, fmt.Errorf("missing r_frame_rate information")
	}
	fps, err := formatRate(video.RFrameRate)
	if err != nil {
		return nil, err
	}

	tc := video.Tags.Timecode
	if tc == "" {
		// mov files keep it on a tmcd data stream
		for _, s := range ff.Streams {
			if s.CodecTagString == "tmcd" && s.Tags.Timecode != "" {
				tc = s.Tags.Timecode
				break
			}
		}
	}
	if tc == "" {
		tc = ff.Format.Tags.Timecode
	}
	m := &Media{File: filepath.Base(file), FPS: fps, Timecode: "00:00:00:00"}
	if tc != "" {
		// ffprobe separates drop-frame frames with ';' (or '.')
		m.DropFrame = strings.ContainsAny(tc, ";.")
		m.Timecode = strings.NewReplacer(";", ":", ".", ":").Replace(tc)
	}
	return m, nil
}

// formatRate renders an ffprobe rational such as 30000/1001 the way editing
// hosts display it ("29.97").
func formatRate(r string) (string, error) {
	parts := strings.SplitN(r, "/", 2)
	num, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return "", fmt.Errorf("unknown r_frame_rate: %v", r)
	}
	den := int64(1)
	if len(parts) == 2 {
		if den, err = strconv.ParseInt(parts[1], 10, 64); err != nil {
			return "", fmt.Errorf("unknown r_frame_rate: %v", r)
		}
	}
	if num <= 0 || den <= 0 {
		return "", fmt.Errorf("unknown r_frame_rate: %v", r)
	}
	if num%den == 0 {
		return strconv.FormatInt(num/den, 10), nil
	}
	v := math.Round(float64(num)/float64(den)*1000) / 1000
	return strconv.FormatFloat(v, 'f', -1, 64), nil
}

// Options configure a Host.
type Options struct {
	// TimelineRate is the rate of the timeline the files are cut into. Zero
	// means the rate of the first file with video.
	TimelineRate float64
	// LeftOffset is the trim applied to every item.
	LeftOffset int64
	// Timeout bounds each ffprobe run of the default Prober; zero means none.
	Timeout time.Duration
	// Prober defaults to FFprobe(Timeout).
	Prober Prober
}

// Host answers clip.Host queries for a list of files.
type Host struct {
	journal.Journal

	files []clip.Item
	media map[clip.Item]*Media
	opts  Options
}

// New probes every file up front. A missing ffprobe binary wraps
// clip.ErrHostUnavailable.
func New(ctx context.Context, files []string, opts Options) (*Host, error) {
	logger := ilog.WithComponentFromContext(ctx, "probe")
	if len(files) == 0 {
		return nil, fmt.Errorf("no media files")
	}
	if opts.Prober == nil {
		if _, err := exec.LookPath("ffprobe"); err != nil {
			return nil, fmt.Errorf("%w: %v", clip.ErrHostUnavailable, err)
		}
		opts.Prober = FFprobe(opts.Timeout)
	}
	h := &Host{media: make(map[clip.Item]*Media, len(files)), opts: opts}
	for _, f := range files {
		item := clip.Item(f)
		if _, dup := h.media[item]; dup {
			continue
		}
		info, err := opts.Prober(ctx, f)
		if err != nil {
			return nil, err
		}
		m, err := parseProbe(f, info)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
		h.files = append(h.files, item)
		h.media[item] = m
		ev := logger.Debug().Str(ilog.FieldFile, f).Bool("video", m != nil)
		if m != nil {
			ev = ev.Str(ilog.FieldFPS, m.FPS).Str(ilog.FieldSourceTC, m.Timecode).Bool(ilog.FieldDropFrame, m.DropFrame)
		}
		ev.Msg("probed")
	}
	return h, nil
}

func (h *Host) lookup(item clip.Item) (*Media, error) {
	m, ok := h.media[item]
	if !ok {
		return nil, fmt.Errorf("%w: %q", clip.ErrUnknownItem, item)
	}
	return m, nil
}

// SelectedItem is the first file.
func (h *Host) SelectedItem(ctx context.Context) (clip.Item, bool, error) {
	return h.files[0], true, nil
}

func (h *Host) HasSourceMedia(ctx context.Context, item clip.Item) (bool, error) {
	m, err := h.lookup(item)
	if err != nil {
		return false, err
	}
	return m != nil, nil
}

func (h *Host) MediaProperty(ctx context.Context, item clip.Item, name clip.Property) (string, error) {
	m, err := h.lookup(item)
	if err != nil {
		return "", err
	}
	if m == nil {
		return "", clip.ErrMissingMedia
	}
	switch name {
	case clip.PropFPS:
		return m.FPS, nil
	case clip.PropDropFrame:
		if m.DropFrame {
			return "1", nil
		}
		return "0", nil
	case clip.PropStartTC:
		return m.Timecode, nil
	case clip.PropFileName:
		return m.File, nil
	}
	return "", fmt.Errorf("unknown media property %q", name)
}

func (h *Host) LeftOffsetFrames(ctx context.Context, item clip.Item) (int64, error) {
	if _, err := h.lookup(item); err != nil {
		return 0, err
	}
	return h.opts.LeftOffset, nil
}

func (h *Host) TimelineFrameRate(ctx context.Context) (float64, error) {
	if h.opts.TimelineRate > 0 {
		return h.opts.TimelineRate, nil
	}
	for _, item := range h.files {
		if m := h.media[item]; m != nil {
			return strconv.ParseFloat(m.FPS, 64)
		}
	}
	return float64(clip.DefaultMediaRate), nil
}

// DisplayName is the file's base name.
func (h *Host) DisplayName(ctx context.Context, item clip.Item) (string, error) {
	if _, err := h.lookup(item); err != nil {
		return "", err
	}
	return filepath.Base(string(item)), nil
}

// Items lists the files in the order given to New.
func (h *Host) Items(ctx context.Context) ([]clip.Item, error) {
	return append([]clip.Item(nil), h.files...), nil
}

var (
	_ clip.Host   = (*Host)(nil)
	_ clip.Lister = (*Host)(nil)
)
