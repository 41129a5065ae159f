package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// fileConfig mirrors the TOML layout. Unset keys keep the Config value they
// were loaded onto.
type fileConfig struct {
	Policy struct {
		AllowedSuffixes    []string `toml:"allowed_suffixes"`
		ExcludedCodecs     []string `toml:"excluded_codecs"`
		AllowedVideoCodecs []string `toml:"allowed_video_codecs"`
		TargetVideoCodec   string   `toml:"target_video_codec"`
		TargetAudioCodec   string   `toml:"target_audio_codec"`
	} `toml:"policy"`
	Tools struct {
		FFmpeg  string `toml:"ffmpeg"`
		FFprobe string `toml:"ffprobe"`
	} `toml:"tools"`
}

// LoadFile decodes the TOML file at path onto cfg. Unknown keys are rejected
// so a misspelled policy entry does not silently fall back to a default.
//
//	[policy]
//	allowed_suffixes     = ["mkv", "avi"]
//	excluded_codecs      = ["png", "mjpeg"]
//	allowed_video_codecs = ["h264"]
//	target_video_codec   = "libx264"
//	target_audio_codec   = "aac"
//
//	[tools]
//	ffmpeg  = "/usr/bin/ffmpeg"
//	ffprobe = "/usr/bin/ffprobe"
func LoadFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var fc fileConfig
	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	p := fc.Policy
	if p.AllowedSuffixes != nil {
		cfg.AllowedSuffixes = p.AllowedSuffixes
	}
	if p.ExcludedCodecs != nil {
		cfg.ExcludedCodecs = p.ExcludedCodecs
	}
	if p.AllowedVideoCodecs != nil {
		cfg.AllowedVideoCodecs = p.AllowedVideoCodecs
	}
	if p.TargetVideoCodec != "" {
		cfg.TargetVideoCodec = p.TargetVideoCodec
	}
	if p.TargetAudioCodec != "" {
		cfg.TargetAudioCodec = p.TargetAudioCodec
	}
	if fc.Tools.FFmpeg != "" {
		cfg.FFmpegBin = fc.Tools.FFmpeg
	}
	if fc.Tools.FFprobe != "" {
		cfg.FFprobeBin = fc.Tools.FFprobe
	}
	return nil
}
