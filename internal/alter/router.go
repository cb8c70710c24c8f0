// Copyright 2025 The OpenChoreo Authors
// SPDX-License-Identifier: Apache-2.0

package alter

import (
	"fmt"
	"strings"
)

// ResourceKind is one of the administrable object classes.
type ResourceKind int

const (
	KindUnknown ResourceKind = iota
	KindServer
	KindMonitor
	KindService
	KindMaxScale
)

const (
	objectParametersPrefix   = "data.attributes.parameters."
	instanceParametersPrefix = "attributes.parameters."
)

// route describes where a resource kind lives and where its parameters sit
// inside the resource document.
type route struct {
	name            string
	collection      string
	attributePrefix string
}

var routes = map[ResourceKind]route{
	KindServer:   {name: "server", collection: "servers", attributePrefix: objectParametersPrefix},
	KindMonitor:  {name: "monitor", collection: "monitors", attributePrefix: objectParametersPrefix},
	KindService:  {name: "service", collection: "services", attributePrefix: objectParametersPrefix},
	KindMaxScale: {name: "maxscale", collection: "maxscale", attributePrefix: instanceParametersPrefix},
}

// Kinds lists the routable kinds in command order.
func Kinds() []ResourceKind {
	return []ResourceKind{KindServer, KindMonitor, KindService, KindMaxScale}
}

func (k ResourceKind) String() string {
	if r, ok := routes[k]; ok {
		return r.name
	}
	return fmt.Sprintf("ResourceKind(%d)", int(k))
}

// RequiresIdentifier reports whether resources of this kind are addressed by name.
func (k ResourceKind) RequiresIdentifier() bool {
	return k != KindMaxScale
}

// ResourceRef names a single resource. ID is ignored for KindMaxScale.
type ResourceRef struct {
	Kind ResourceKind
	ID   string
}

// Route returns the REST resource path and the dotted attribute prefix for a
// resource. It performs no I/O and does not check that the resource exists.
func Route(kind ResourceKind, id string) (resourcePath, attributePrefix string, err error) {
	r, ok := routes[kind]
	if !ok {
		return "", "", invalid(fmt.Sprintf("unknown resource category %s", kind), ErrInvalidCategory)
	}
	if !kind.RequiresIdentifier() {
		return r.collection, r.attributePrefix, nil
	}
	if strings.TrimSpace(id) == "" {
		return "", "", invalid(fmt.Sprintf("%s name is required", r.name), ErrMissingIdentifier)
	}
	return r.collection + "/" + id, r.attributePrefix, nil
}

// Route resolves the reference; see the package-level Route.
func (r ResourceRef) Route() (resourcePath, attributePrefix string, err error) {
	return Route(r.Kind, r.ID)
}
