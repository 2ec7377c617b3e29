package main

import (
	"fmt"
	"strings"

	"videogrid/internal/config"
	"videogrid/internal/pipeline"
)

// parseClipArgs turns "path" or "path=LABEL" arguments into clips. The first
// '=' separates the label, so labels may contain '=' but paths may not.
func parseClipArgs(args []string) ([]config.Clip, error) {
	clips := make([]config.Clip, 0, len(args))
	for i, arg := range args {
		source, label, _ := strings.Cut(arg, "=")
		source = strings.TrimSpace(source)
		if source == "" {
			return nil, fmt.Errorf("clip argument %d (%q): missing path", i+1, arg)
		}
		clips = append(clips, config.Clip{Source: source, Label: strings.TrimSpace(label)})
	}
	return clips, nil
}

func clipSpecs(clips []config.Clip) []pipeline.ClipSpec {
	specs := make([]pipeline.ClipSpec, len(clips))
	for i, clip := range clips {
		specs[i] = pipeline.ClipSpec{Source: clip.Source, Label: clip.Label}
	}
	return specs
}
