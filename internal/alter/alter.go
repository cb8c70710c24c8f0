// Copyright 2025 The OpenChoreo Authors
// SPDX-License-Identifier: Apache-2.0

// Package alter turns an "alter <kind> [<name>] <key> <value>" command into
// the partial update sent to the MaxScale REST API.
//
// The flow is linear:
//  1. Plan routes the command to a resource path and builds the full
//     parameter path (attribute prefix followed by the user key).
//  2. The current document for the resource path is fetched.
//  3. ApplyUpdate sets the parameter inside the document.
//  4. The document is sent back as a PATCH to the same resource path.
//
// All input validation happens in step 1, before any request is made.
package alter

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/openchoreo/maxctrl/internal/logging"
	"github.com/openchoreo/maxctrl/internal/patch"
)

// Command is a tokenized alter command.
type Command struct {
	Kind  ResourceKind
	ID    string
	Key   string
	Value string
}

// Ref returns the resource the command addresses.
func (c Command) Ref() ResourceRef {
	return ResourceRef{Kind: c.Kind, ID: c.ID}
}

// Target is the result of planning a command.
type Target struct {
	// ResourcePath is relative to the REST API root, e.g. "servers/db1".
	ResourcePath string
	// Path is the attribute prefix segments followed by the key segments.
	Path DottedPath
}

// PatchRequest is the document to send to ResourcePath.
type PatchRequest struct {
	ResourcePath string
	Document     Document
}

// Plan validates a command and resolves where its value goes.
func Plan(cmd Command) (Target, error) {
	resourcePath, prefix, err := cmd.Ref().Route()
	if err != nil {
		return Target{}, err
	}
	key, err := ParseDottedPath(cmd.Key)
	if err != nil {
		return Target{}, err
	}
	return Target{
		ResourcePath: resourcePath,
		Path:         parsePrefix(prefix).Join(key),
	}, nil
}

// Build plans cmd and applies it to doc, the current representation of the
// target resource. doc itself is not modified.
func Build(cmd Command, doc Document) (PatchRequest, error) {
	target, err := Plan(cmd)
	if err != nil {
		return PatchRequest{}, err
	}
	updated, err := ApplyUpdate(patch.DeepCopy(doc), target.Path, cmd.Value)
	if err != nil {
		return PatchRequest{}, err
	}
	return PatchRequest{ResourcePath: target.ResourcePath, Document: updated}, nil
}

// Client fetches and updates resource documents.
type Client interface {
	Get(ctx context.Context, resourcePath string) (Document, error)
	Patch(ctx context.Context, resourcePath string, doc Document) error
}

// Alterer runs alter commands against a Client.
type Alterer struct {
	Client Client
	// DryRun builds the request without sending the PATCH.
	DryRun bool
}

// Result describes a completed (or, with DryRun, planned) alteration.
type Result struct {
	Request PatchRequest
	// Path is the full parameter path that was set.
	Path DottedPath
	// Original is the document as fetched, before the update.
	Original Document
	// Sent is false when DryRun suppressed the PATCH.
	Sent bool
}

// Run fetches the current document for cmd's resource, updates it and sends
// it back. Validation errors are returned before any request is made.
func (a *Alterer) Run(ctx context.Context, cmd Command) (Result, error) {
	logger := logr.FromContextOrDiscard(ctx).WithValues("kind", cmd.Kind.String(), "key", cmd.Key)

	target, err := Plan(cmd)
	if err != nil {
		return Result{}, err
	}
	logger = logger.WithValues("resource", target.ResourcePath)

	if a.Client == nil {
		return Result{}, fmt.Errorf("alter %s: no client configured", target.ResourcePath)
	}

	original, err := a.Client.Get(ctx, target.ResourcePath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to fetch %s: %w", target.ResourcePath, err)
	}

	request, err := Build(cmd, original)
	if err != nil {
		return Result{}, err
	}
	result := Result{Request: request, Path: target.Path, Original: original}

	if diffLog := logger.V(logging.LevelDiff); diffLog.Enabled() {
		diff, err := patch.MergePatch(original, request.Document)
		if err != nil {
			logger.Error(err, "Failed to compute parameter change")
		} else {
			diffLog.Info("Computed parameter change", "mergePatch", string(diff))
		}
	}

	if a.DryRun {
		logger.V(logging.LevelRequest).Info("Dry run, skipping update", "path", target.Path.String())
		return result, nil
	}

	if err := a.Client.Patch(ctx, request.ResourcePath, request.Document); err != nil {
		return Result{}, fmt.Errorf("failed to update %s: %w", target.ResourcePath, err)
	}
	result.Sent = true
	logger.V(logging.LevelRequest).Info("Updated parameter", "path", target.Path.String())
	return result, nil
}
