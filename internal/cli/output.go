// Copyright 2025 The OpenChoreo Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"sigs.k8s.io/yaml"

	"github.com/openchoreo/maxctrl/internal/alter"
	"github.com/openchoreo/maxctrl/internal/faults"
	"github.com/openchoreo/maxctrl/internal/patch"
)

const (
	outputJSON       = "json"
	outputYAML       = "yaml"
	outputJSONPatch  = "json-patch"
	outputMergePatch = "merge-patch"
)

const (
	statusOK    = "OK"
	statusError = "ERROR"
)

func validOutput(format string) bool {
	switch format {
	case outputJSON, outputYAML, outputJSONPatch, outputMergePatch:
		return true
	}
	return false
}

func invalidOutput(format string) error {
	return faults.Validation(fmt.Sprintf("unsupported output format %q (want json, yaml, json-patch or merge-patch)", format), nil)
}

// writeDryRun prints the request line followed by the body in the requested format.
func writeDryRun(w io.Writer, format string, command alter.Command, result alter.Result) error {
	var (
		body []byte
		err  error
	)
	switch format {
	case outputJSON:
		body, err = json.MarshalIndent(result.Request.Document, "", "  ")
	case outputYAML:
		body, err = yaml.Marshal(result.Request.Document)
	case outputJSONPatch:
		body, err = renderJSONPatch(command, result)
	case outputMergePatch:
		body, err = patch.MergePatch(result.Original, result.Request.Document)
	default:
		return invalidOutput(format)
	}
	if err != nil {
		return faults.Internal("failed to render dry-run output", err)
	}

	if _, err := fmt.Fprintf(w, "PATCH %s\n", result.Request.ResourcePath); err != nil {
		return err
	}
	if len(body) > 0 && body[len(body)-1] != '\n' {
		body = append(body, '\n')
	}
	_, err = w.Write(body)
	return err
}

// renderJSONPatch renders the operation equivalent to the update and checks
// that applying it to the fetched document yields the request body.
func renderJSONPatch(command alter.Command, result alter.Result) ([]byte, error) {
	ops := []patch.Operation{patch.AddOperation(result.Path, command.Value)}
	applied, err := patch.Apply(result.Original, ops)
	if err != nil {
		return nil, err
	}
	same, err := patch.Equal(applied, result.Request.Document)
	if err != nil {
		return nil, err
	}
	if !same {
		return nil, fmt.Errorf("JSON patch for %s does not reproduce the update", result.Request.ResourcePath)
	}
	return json.MarshalIndent(ops, "", "  ")
}

func writeStatus(w io.Writer, noColor bool, status, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", statusLabel(noColor, status), message)
}

func statusLabel(noColor bool, status string) string {
	label := "[" + status + "]"
	var c *color.Color
	switch status {
	case statusOK:
		c = color.New(color.FgGreen, color.Bold)
	case statusError:
		c = color.New(color.FgRed, color.Bold)
	default:
		return label
	}
	if noColor {
		c.DisableColor()
	}
	return c.Sprint(label)
}
