package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Info is what ffprobe tells us about a media file
type Info struct {
	Duration   time.Duration
	HasAudio   bool
	HasVideo   bool
	FormatName string
}

type ffprobeOutput struct {
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		SampleRate string `json:"sample_rate,omitempty"`
	} `json:"streams"`
	Format struct {
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
	} `json:"format"`
}

// Prober runs ffprobe
type Prober struct {
	binary string
}

// NewProber returns a Prober using ffprobe from PATH
func NewProber() *Prober {
	return &Prober{binary: "ffprobe"}
}

// Available reports whether the ffprobe binary can be found
func (p *Prober) Available() bool {
	_, err := exec.LookPath(p.binary)
	return err == nil
}

// Probe inspects the file at filePath
func (p *Prober) Probe(ctx context.Context, filePath string) (Info, error) {
	cmd := exec.CommandContext(ctx, p.binary, "-v", "error", "-print_format", "json", "-show_format", "-show_streams", filePath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		return Info{}, fmt.Errorf("ffprobe error: %v, stderr: %s", err, strings.TrimSpace(stderr.String()))
	}
	return parseProbeOutput(output)
}

func parseProbeOutput(output []byte) (Info, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal(output, &probe); err != nil {
		return Info{}, fmt.Errorf("parse ffprobe output: %w", err)
	}

	info := Info{FormatName: probe.Format.FormatName}
	for _, stream := range probe.Streams {
		switch stream.CodecType {
		case "audio":
			info.HasAudio = true
		case "video":
			info.HasVideo = true
		}
	}

	if d := strings.TrimSpace(probe.Format.Duration); d != "" && d != "N/A" {
		seconds, err := strconv.ParseFloat(d, 64)
		if err != nil {
			return Info{}, fmt.Errorf("parse duration %q: %w", d, err)
		}
		info.Duration = time.Duration(seconds * float64(time.Second)).Round(time.Millisecond)
	}

	return info, nil
}
