// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package renderers

import (
	"context"
	"net/url"
)

// RequestInfo is the part of the incoming request renderers may read.
type RequestInfo struct {
	LanguageCode string
	Path         string
	Query        url.Values
}

type requestInfoKey struct{}

// WithRequestInfo attaches info to ctx for the renderers of one page render.
func WithRequestInfo(ctx context.Context, info RequestInfo) context.Context {
	return context.WithValue(ctx, requestInfoKey{}, info)
}

func requestInfoFrom(ctx context.Context) RequestInfo {
	info, _ := ctx.Value(requestInfoKey{}).(RequestInfo)
	if info.Query == nil {
		info.Query = url.Values{}
	}
	return info
}
