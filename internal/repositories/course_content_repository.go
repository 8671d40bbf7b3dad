package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/libs/apperrors"
	"go.uber.org/zap"
)

// courseContentRepository stores topics and subtopics, which reference their course by ID
type courseContentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCourseContentRepository creates a new course content repository
func NewCourseContentRepository(db *sql.DB, logger *zap.Logger) *courseContentRepository {
	return &courseContentRepository{db: db, logger: logger}
}

// CreateTopic appends a topic to the end of a course
func (r *courseContentRepository) CreateTopic(ctx context.Context, topic *models.Topic) error {
	query := `
		INSERT INTO topics (course_id, name, position, topic_duration)
		SELECT ?, ?, COALESCE(MAX(position), 0) + 1, ?
		FROM topics WHERE course_id = ?
	`

	result, err := r.db.ExecContext(ctx, query, topic.CourseID, topic.Name, topic.TopicDuration, topic.CourseID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("course not found")
		}
		return fmt.Errorf("failed to create topic: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	topic.ID = int(id)
	return nil
}

// GetTopicByID retrieves a topic without its subtopics
func (r *courseContentRepository) GetTopicByID(ctx context.Context, id int) (*models.Topic, error) {
	query := `SELECT id, course_id, name, position, topic_duration FROM topics WHERE id = ?`

	topic := &models.Topic{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&topic.ID,
		&topic.CourseID,
		&topic.Name,
		&topic.Position,
		&topic.TopicDuration,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("topic not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get topic: %w", err)
	}

	return topic, nil
}

// CreateSubTopic appends a subtopic to the end of a topic
func (r *courseContentRepository) CreateSubTopic(ctx context.Context, subTopic *models.SubTopic) error {
	query := `
		INSERT INTO subtopics (topic_id, title, description, video_url, video_playback_time, position)
		SELECT ?, ?, ?, ?, ?, COALESCE(MAX(position), 0) + 1
		FROM subtopics WHERE topic_id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		subTopic.TopicID,
		subTopic.Title,
		subTopic.Description,
		subTopic.VideoURL,
		subTopic.VideoPlaybackTime,
		subTopic.TopicID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("topic not found")
		}
		return fmt.Errorf("failed to create subtopic: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	subTopic.ID = int(id)
	return nil
}

// GetByCourseID returns the ordered topics of a course with their ordered subtopics
func (r *courseContentRepository) GetByCourseID(ctx context.Context, courseID int) ([]models.Topic, error) {
	topicRows, err := r.db.QueryContext(ctx, `
		SELECT id, course_id, name, position, topic_duration
		FROM topics
		WHERE course_id = ?
		ORDER BY position, id
	`, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query topics: %w", err)
	}
	defer topicRows.Close()

	topics := []models.Topic{}
	index := map[int]int{}
	for topicRows.Next() {
		t := models.Topic{SubTopics: []models.SubTopic{}}
		if err := topicRows.Scan(&t.ID, &t.CourseID, &t.Name, &t.Position, &t.TopicDuration); err != nil {
			return nil, fmt.Errorf("failed to scan topic: %w", err)
		}
		index[t.ID] = len(topics)
		topics = append(topics, t)
	}
	if err := topicRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating topics: %w", err)
	}

	if len(topics) == 0 {
		return topics, nil
	}

	subRows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.topic_id, s.title, s.description, s.video_url, s.video_playback_time, s.position
		FROM subtopics s
		INNER JOIN topics t ON t.id = s.topic_id
		WHERE t.course_id = ?
		ORDER BY s.position, s.id
	`, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query subtopics: %w", err)
	}
	defer subRows.Close()

	for subRows.Next() {
		var s models.SubTopic
		if err := subRows.Scan(&s.ID, &s.TopicID, &s.Title, &s.Description, &s.VideoURL, &s.VideoPlaybackTime, &s.Position); err != nil {
			return nil, fmt.Errorf("failed to scan subtopic: %w", err)
		}
		i, ok := index[s.TopicID]
		if !ok {
			continue
		}
		topics[i].SubTopics = append(topics[i].SubTopics, s)
	}
	if err := subRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subtopics: %w", err)
	}

	return topics, nil
}

// CountSubTopics returns the number of subtopics across all topics of a course
func (r *courseContentRepository) CountSubTopics(ctx context.Context, courseID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM subtopics s
		INNER JOIN topics t ON t.id = s.topic_id
		WHERE t.course_id = ?
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, courseID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count subtopics: %w", err)
	}

	return count, nil
}

// SubTopicBelongsToCourse reports whether a subtopic is part of a course
func (r *courseContentRepository) SubTopicBelongsToCourse(ctx context.Context, subTopicID, courseID int) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM subtopics s
			INNER JOIN topics t ON t.id = s.topic_id
			WHERE s.id = ? AND t.course_id = ?
		)
	`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, subTopicID, courseID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check subtopic: %w", err)
	}

	return exists, nil
}

// SaveDurations writes recomputed topic durations and the course total in one transaction
func (r *courseContentRepository) SaveDurations(ctx context.Context, courseID int, topics []models.Topic, totalDuration string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		return saveDurations(ctx, tx, courseID, topics, totalDuration)
	})
}

// ReplaceContent applies the non-nil course fields of req, deletes every topic of the course
// and inserts the given ones with their durations and the course total, all in one transaction.
// IDs of the new rows are set on topics.
func (r *courseContentRepository) ReplaceContent(ctx context.Context, courseID int, req *models.UpdateCourseRequest, topics []models.Topic, totalDuration string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if err := updateCourseFields(ctx, tx, courseID, req); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM topics WHERE course_id = ?`, courseID); err != nil {
			return fmt.Errorf("failed to delete topics: %w", err)
		}

		for i := range topics {
			topic := &topics[i]
			topic.CourseID = courseID
			topic.Position = i + 1

			result, err := tx.ExecContext(ctx,
				`INSERT INTO topics (course_id, name, position, topic_duration) VALUES (?, ?, ?, ?)`,
				courseID, topic.Name, topic.Position, topic.TopicDuration,
			)
			if err != nil {
				return fmt.Errorf("failed to insert topic: %w", err)
			}
			topicID, err := result.LastInsertId()
			if err != nil {
				return fmt.Errorf("failed to get last insert id: %w", err)
			}
			topic.ID = int(topicID)

			for j := range topic.SubTopics {
				sub := &topic.SubTopics[j]
				sub.TopicID = topic.ID
				sub.Position = j + 1

				result, err := tx.ExecContext(ctx, `
					INSERT INTO subtopics (topic_id, title, description, video_url, video_playback_time, position)
					VALUES (?, ?, ?, ?, ?, ?)
				`, sub.TopicID, sub.Title, sub.Description, sub.VideoURL, sub.VideoPlaybackTime, sub.Position)
				if err != nil {
					return fmt.Errorf("failed to insert subtopic: %w", err)
				}
				subID, err := result.LastInsertId()
				if err != nil {
					return fmt.Errorf("failed to get last insert id: %w", err)
				}
				sub.ID = int(subID)
			}
		}

		if _, err := tx.ExecContext(ctx, `UPDATE courses SET total_duration = ? WHERE id = ?`, totalDuration, courseID); err != nil {
			return fmt.Errorf("failed to update course duration: %w", err)
		}

		return nil
	})
}

func saveDurations(ctx context.Context, tx *sql.Tx, courseID int, topics []models.Topic, totalDuration string) error {
	for _, topic := range topics {
		if _, err := tx.ExecContext(ctx,
			`UPDATE topics SET topic_duration = ? WHERE id = ? AND course_id = ?`,
			topic.TopicDuration, topic.ID, courseID,
		); err != nil {
			return fmt.Errorf("failed to update topic duration: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `UPDATE courses SET total_duration = ? WHERE id = ?`, totalDuration, courseID); err != nil {
		return fmt.Errorf("failed to update course duration: %w", err)
	}

	return nil
}

// withTx runs fn inside a transaction, rolling back when it fails
func (r *courseContentRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.logger.Error("failed to rollback transaction", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
