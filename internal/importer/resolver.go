package importer

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/erbeard/nc-sigmas-portal/internal/model"
)

// chapterIndex resolves upload chapter names to stored chapters for one
// import run. Names match case-insensitively after trimming; when
// createMissing is set, unmatched names get a minimal Collegiate row that
// is flushed alongside the run's other writes.
type chapterIndex struct {
	byName  map[string]model.Chapter
	created []model.Chapter
}

func (im *Importer) loadChapterIndex(ctx context.Context) (*chapterIndex, error) {
	chapters, err := im.repo.ListChapters(ctx)
	if err != nil {
		return nil, err
	}
	idx := &chapterIndex{byName: make(map[string]model.Chapter, len(chapters))}
	for _, ch := range chapters {
		idx.byName[normalizeName(ch.Name)] = ch
	}
	return idx, nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (idx *chapterIndex) lookup(name string) (model.Chapter, bool) {
	ch, ok := idx.byName[normalizeName(name)]
	return ch, ok
}

// resolveOrCreate returns the existing chapter for name, or registers a
// new one so later rows in the same run resolve to it.
func (idx *chapterIndex) resolveOrCreate(name string) model.Chapter {
	trimmed := strings.TrimSpace(name)
	if ch, ok := idx.lookup(trimmed); ok {
		return ch
	}
	ch := model.Chapter{
		ID:     uuid.New().String(),
		Name:   trimmed,
		Type:   string(model.ChapterCollegiate),
		Status: "Active",
	}
	idx.byName[normalizeName(trimmed)] = ch
	idx.created = append(idx.created, ch)
	return ch
}
