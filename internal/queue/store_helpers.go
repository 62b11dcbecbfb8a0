package queue

import (
	"database/sql"
	"errors"
	"time"
)

const itemColumns = "id, owner_id, main_keyword, service_url, cluster_keywords, status, wp_post_url, feature_image, created_at, updated_at"

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		id              int64
		ownerID         string
		mainKeyword     string
		serviceURL      sql.NullString
		clusterKeywords sql.NullString
		statusStr       string
		wpPostURL       sql.NullString
		featureImage    sql.NullString
		createdRaw      sql.NullString
		updatedRaw      sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&ownerID,
		&mainKeyword,
		&serviceURL,
		&clusterKeywords,
		&statusStr,
		&wpPostURL,
		&featureImage,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	item := &Item{
		ID:              id,
		OwnerID:         ownerID,
		MainKeyword:     mainKeyword,
		ServiceURL:      serviceURL.String,
		ClusterKeywords: clusterKeywords.String,
		Status:          Status(statusStr),
		WPPostURL:       wpPostURL.String,
		FeatureImage:    featureImage.String,
	}

	if created, err := parseTimeString(createdRaw.String); err == nil {
		item.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		item.UpdatedAt = updated
	}
	return item, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
