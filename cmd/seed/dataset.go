package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"bayan-ai-be/internal/mapper"
	"bayan-ai-be/internal/model"
	"bayan-ai-be/pkg/lexical"
	"bayan-ai-be/pkg/store"
)

// datasetFile is the importer input. A bare JSON array of verse rows is
// accepted too.
type datasetFile struct {
	Categories []model.Category         `json:"categories"`
	Verses     []map[string]interface{} `json:"verses"`
}

// seedItem is one verse ready for embedding and upsert
type seedItem struct {
	Record      store.VerseRecord
	Row         map[string]interface{}
	CategoryIDs []int
}

type dataset struct {
	Categories []model.Category
	Items      []seedItem
	Skipped    int
}

func loadDataset(r io.Reader, m *mapper.VerseMapper) (*dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	var file datasetFile
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(raw, &file.Verses); err != nil {
			return nil, fmt.Errorf("decode verse rows: %w", err)
		}
	} else if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	categories := withKnownCategories(file.Categories)
	byName := make(map[string]int, len(categories))
	for _, c := range categories {
		byName[strings.ToLower(strings.TrimSpace(c.Name))] = c.Id
	}

	ds := &dataset{Categories: categories}
	for _, row := range file.Verses {
		rec, ok := m.FromRow(row)
		if !ok || !rec.Displayable() {
			ds.Skipped++
			continue
		}
		ds.Items = append(ds.Items, seedItem{
			Record:      rec,
			Row:         row,
			CategoryIDs: categoryIDs(row, rec.Categories, byName),
		})
	}
	return ds, nil
}

// withKnownCategories makes sure the ids the category search relies on exist
func withKnownCategories(categories []model.Category) []model.Category {
	seen := make(map[int]bool, len(categories))
	out := make([]model.Category, 0, len(categories)+2)
	for _, c := range categories {
		if c.Id <= 0 || seen[c.Id] {
			continue
		}
		seen[c.Id] = true
		out = append(out, c)
	}
	for _, known := range []model.Category{
		{Id: lexical.CategoryHisabID, Name: "yaum al-hisab"},
		{Id: lexical.CategoryMizanID, Name: "yaum al-mizan"},
	} {
		if !seen[known.Id] {
			out = append(out, known)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}

// categoryIDs collects explicit "kategori_ids" and the ids of named categories
func categoryIDs(row map[string]interface{}, names []string, byName map[string]int) []int {
	seen := map[int]bool{}
	var ids []int
	add := func(id int) {
		if id > 0 && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	if list, ok := row["kategori_ids"].([]interface{}); ok {
		for _, v := range list {
			if f, ok := v.(float64); ok {
				add(int(f))
			}
		}
	}
	for _, name := range names {
		if id, ok := byName[strings.ToLower(strings.TrimSpace(name))]; ok {
			add(id)
		}
	}
	sort.Ints(ids)
	return ids
}
