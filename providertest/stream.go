package providertest

import (
	"context"

	"github.com/milkydeferwm/pagelistbot/provider"
	"github.com/milkydeferwm/pagelistbot/title"
)

type sliceTitleStream struct {
	items []title.Title
	pos   int
}

func newSliceTitleStream(items []title.Title) *sliceTitleStream {
	return &sliceTitleStream{items: items}
}

func (s *sliceTitleStream) Next(ctx context.Context) (title.Title, bool, error) {
	select {
	case <-ctx.Done():
		return title.Title{}, false, ctx.Err()
	default:
	}
	if s.pos >= len(s.items) {
		return title.Title{}, false, nil
	}
	t := s.items[s.pos]
	s.pos++
	return t, true, nil
}

func (s *sliceTitleStream) Close() {}

type sliceCategoryStream struct {
	items []provider.CategoryMember
	pos   int
}

func newSliceCategoryStream(items []provider.CategoryMember) *sliceCategoryStream {
	return &sliceCategoryStream{items: items}
}

func (s *sliceCategoryStream) Next(ctx context.Context) (provider.CategoryMember, bool, error) {
	select {
	case <-ctx.Done():
		return provider.CategoryMember{}, false, ctx.Err()
	default:
	}
	if s.pos >= len(s.items) {
		return provider.CategoryMember{}, false, nil
	}
	m := s.items[s.pos]
	s.pos++
	return m, true, nil
}

func (s *sliceCategoryStream) Close() {}
