package session

import (
	"context"
	"net/url"
	"strings"
)

// Route names a screen of the client.
type Route string

const (
	RouteLanding     Route = "/"
	RouteLogin       Route = "/login"
	RouteRegister    Route = "/register"
	RouteApp         Route = "/app"
	RoutePricing     Route = "/pro"
	RouteVerifyEmail Route = "/verify-email"
)

// Location is a route plus its query, e.g. /verify-email?email=a%40b.c
type Location struct {
	Route Route
	Query url.Values
}

func To(r Route) Location {
	return Location{Route: r}
}

// returns a location for r with a single query parameter
func ToWith(r Route, key, value string) Location {
	return Location{Route: r, Query: url.Values{key: []string{value}}}
}

func (l Location) String() string {
	if len(l.Query) == 0 {
		return string(l.Route)
	}

	return string(l.Route) + "?" + l.Query.Encode()
}

// returns the first value of the query parameter key
func (l Location) Param(key string) string {
	return l.Query.Get(key)
}

// parses "/route?query#fragment"; the fragment is dropped
func ParseLocation(raw string) (Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, err
	}

	path := u.Path
	if path == "" {
		path = "/"
	}

	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}

	return Location{Route: Route(path), Query: u.Query()}, nil
}

// Navigator switches the active screen. front ends implement it; the TUI
// swaps models, the CLI records the target and prints a hint.
type Navigator interface {
	Navigate(ctx context.Context, to Location)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, to Location)

func (f NavigatorFunc) Navigate(ctx context.Context, to Location) {
	f(ctx, to)
}
