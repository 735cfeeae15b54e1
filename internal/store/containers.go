package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	berrors "github.com/harrison/batchimport/internal/errors"
	"github.com/harrison/batchimport/internal/models"
)

// NormalizePath cleans a slash separated container path.
// Empty segments are dropped; "." and ".." are rejected.
func NormalizePath(path string) (string, error) {
	parts := strings.Split(strings.ReplaceAll(path, "\\", "/"), "/")
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		switch part {
		case "":
			continue
		case ".", "..":
			return "", fmt.Errorf("invalid path segment %q in %q", part, path)
		}
		kept = append(kept, part)
	}
	return strings.Join(kept, "/"), nil
}

// ResolveLocation resolves a folder path to its container, walking it one
// segment at a time from the root. The first segment that does not exist is
// reported in an UnknownLocationError.
func (s *Store) ResolveLocation(ctx context.Context, folderPath string) (models.Container, error) {
	path, err := NormalizePath(folderPath)
	if err != nil {
		return models.Container{}, &berrors.UnknownLocationError{Path: folderPath}
	}

	if path == "" {
		return s.containerByPath(ctx, "")
	}

	segments := strings.Split(path, "/")
	for i := range segments {
		prefix := strings.Join(segments[:i+1], "/")
		c, err := s.containerByPath(ctx, prefix)
		if err == nil {
			if i == len(segments)-1 {
				return c, nil
			}
			continue
		}
		if berrors.IsNotFound(err) {
			return models.Container{}, &berrors.UnknownLocationError{Path: path, Segment: segments[i]}
		}
		return models.Container{}, err
	}

	// Unreachable: the loop returns on the last segment
	return models.Container{}, &berrors.UnknownLocationError{Path: path}
}

func (s *Store) containerByPath(ctx context.Context, path string) (models.Container, error) {
	var c models.Container
	err := s.db.QueryRowContext(ctx,
		`SELECT id, path, title FROM containers WHERE path = ?`, path).
		Scan(&c.ID, &c.Path, &c.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Container{}, berrors.NewNotFoundError("container", path)
	}
	if err != nil {
		return models.Container{}, fmt.Errorf("query container %q: %w", path, err)
	}
	return c, nil
}

// AddContainer creates the container at path. The title defaults to the last
// path segment. With parents, missing ancestors are created and an existing
// container is returned as is; without it, a missing parent fails with an
// UnknownLocationError and an existing path fails with ErrAlreadyExists.
func (s *Store) AddContainer(ctx context.Context, folderPath, title string, parents bool) (models.Container, error) {
	path, err := NormalizePath(folderPath)
	if err != nil {
		return models.Container{}, err
	}
	if path == "" {
		if parents {
			return s.containerByPath(ctx, "")
		}
		return models.Container{}, fmt.Errorf("root container: %w", berrors.ErrAlreadyExists)
	}

	segments := strings.Split(path, "/")
	var created models.Container
	for i := range segments {
		prefix := strings.Join(segments[:i+1], "/")
		last := i == len(segments)-1

		existing, err := s.containerByPath(ctx, prefix)
		if err == nil {
			if last {
				if parents {
					return existing, nil
				}
				return models.Container{}, fmt.Errorf("container %q: %w", prefix, berrors.ErrAlreadyExists)
			}
			continue
		}
		if !berrors.IsNotFound(err) {
			return models.Container{}, err
		}
		if !last && !parents {
			return models.Container{}, &berrors.UnknownLocationError{Path: path, Segment: segments[i]}
		}

		segTitle := segments[i]
		if last && title != "" {
			segTitle = title
		}
		created, err = s.insertContainer(ctx, prefix, segTitle)
		if err != nil {
			return models.Container{}, err
		}
	}
	return created, nil
}

func (s *Store) insertContainer(ctx context.Context, path, title string) (models.Container, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO containers (path, title, created_at) VALUES (?, ?, ?)`,
		path, title, formatTime(s.now()))
	if err != nil {
		if isUniqueViolation(err) {
			return models.Container{}, fmt.Errorf("container %q: %w", path, berrors.ErrAlreadyExists)
		}
		return models.Container{}, fmt.Errorf("insert container %q: %w", path, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Container{}, fmt.Errorf("container id: %w", err)
	}
	return models.Container{ID: id, Path: path, Title: title}, nil
}

// ListContainers returns every container ordered by path, root first
func (s *Store) ListContainers(ctx context.Context) ([]models.Container, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, path, title FROM containers ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("query containers: %w", err)
	}
	defer rows.Close()

	var containers []models.Container
	for rows.Next() {
		var c models.Container
		if err := rows.Scan(&c.ID, &c.Path, &c.Title); err != nil {
			return nil, fmt.Errorf("scan container: %w", err)
		}
		containers = append(containers, c)
	}
	return containers, rows.Err()
}
