package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/noah-isme/learnhub-api/internal/models"
	appErrors "github.com/noah-isme/learnhub-api/pkg/errors"
)

// memDB is a tiny in-memory stand-in for the relational store shared by the fakes below.
type memDB struct {
	mu        sync.Mutex
	seq       int
	users     map[string]*models.User
	topics    map[string]*models.Topic
	courses   map[string]*models.Course
	videos    map[string]*models.Video
	bookmarks map[string]time.Time
	comments  []models.Comment
	progress  map[string]*models.VideoProgress
	ratings   []models.CourseRating
	audits    []*models.AuditLog
}

func newMemDB() *memDB {
	return &memDB{
		users:     map[string]*models.User{},
		topics:    map[string]*models.Topic{},
		courses:   map[string]*models.Course{},
		videos:    map[string]*models.Video{},
		bookmarks: map[string]time.Time{},
		progress:  map[string]*models.VideoProgress{},
	}
}

func (db *memDB) nextID(prefix string) string {
	db.seq++
	return fmt.Sprintf("%s-%d", prefix, db.seq)
}

func (db *memDB) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.audits = append(db.audits, log)
	return nil
}

func (db *memDB) addUser(username string, role models.Role) *models.Principal {
	db.mu.Lock()
	defer db.mu.Unlock()
	id := db.nextID("user")
	db.users[id] = &models.User{ID: id, Username: username, Email: username + "@example.com", Role: role}
	return &models.Principal{UserID: id, Username: username, Role: role}
}

func (db *memDB) addTopic(name, slug string) *models.Topic {
	db.mu.Lock()
	defer db.mu.Unlock()
	topic := &models.Topic{ID: db.nextID("topic"), Name: name, Slug: slug}
	db.topics[topic.ID] = topic
	return topic
}

func (db *memDB) addCourse(owner *models.Principal, topic *models.Topic, title, slug string) *models.Course {
	db.mu.Lock()
	defer db.mu.Unlock()
	course := &models.Course{
		ID:              db.nextID("course"),
		Title:           title,
		Slug:            slug,
		TeacherID:       owner.UserID,
		TopicID:         topic.ID,
		IsActive:        true,
		CreatedAt:       time.Now().Add(time.Duration(db.seq) * time.Second),
		TeacherUsername: owner.Username,
		TopicName:       topic.Name,
		TopicSlug:       topic.Slug,
	}
	db.courses[course.ID] = course
	return course
}

func (db *memDB) addVideo(course *models.Course, title string, order int, duration *int) *models.Video {
	db.mu.Lock()
	defer db.mu.Unlock()
	video := &models.Video{
		ID:              db.nextID("video"),
		Title:           title,
		CourseID:        course.ID,
		VideoFile:       "videos/" + title + ".mp4",
		DurationSeconds: duration,
		Order:           order,
	}
	db.videos[video.ID] = video
	return video
}

type memUsers struct{ db *memDB }

func (r memUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Username == username {
			copy := *u
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r memUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if u, ok := r.db.users[id]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (r memUsers) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var usernameTaken, emailTaken bool
	for _, u := range r.db.users {
		usernameTaken = usernameTaken || strings.EqualFold(u.Username, username)
		emailTaken = emailTaken || strings.EqualFold(u.Email, email)
	}
	return usernameTaken, emailTaken, nil
}

func (r memUsers) Create(_ context.Context, user *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	user.ID = r.db.nextID("user")
	user.CreatedAt = time.Now().UTC()
	copy := *user
	r.db.users[user.ID] = &copy
	return nil
}

func (r memUsers) UpdateProfile(_ context.Context, user *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[user.ID]; !ok {
		return sql.ErrNoRows
	}
	copy := *user
	r.db.users[user.ID] = &copy
	return nil
}

func (r memUsers) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	return r.db.CreateAuditLog(ctx, log)
}

type memTopics struct{ db *memDB }

func (r memTopics) List(_ context.Context) ([]models.Topic, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	topics := make([]models.Topic, 0, len(r.db.topics))
	for _, t := range r.db.topics {
		topics = append(topics, *t)
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].Name < topics[j].Name })
	return topics, nil
}

func (r memTopics) FindBySlug(_ context.Context, slug string) (*models.Topic, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, t := range r.db.topics {
		if t.Slug == slug {
			copy := *t
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r memTopics) FindByID(_ context.Context, id string) (*models.Topic, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if t, ok := r.db.topics[id]; ok {
		copy := *t
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (r memTopics) ExistsByNameOrSlug(_ context.Context, name, slug string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, t := range r.db.topics {
		if t.Name == name || t.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r memTopics) Create(_ context.Context, topic *models.Topic) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	topic.ID = r.db.nextID("topic")
	copy := *topic
	r.db.topics[topic.ID] = &copy
	return nil
}

// memCourses can be told to fail the next Create calls, e.g. with a unique violation.
type memCourses struct {
	db         *memDB
	createErrs []error
	listErr    error
}

func uniqueViolation() error {
	return &pq.Error{Code: "23505"}
}

func (r *memCourses) List(_ context.Context, filter models.CourseFilter) ([]models.Course, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	needle := strings.ToLower(filter.Search)
	courses := make([]models.Course, 0)
	for _, c := range r.db.courses {
		if filter.TopicSlug != "" && c.TopicSlug != filter.TopicSlug {
			continue
		}
		if needle != "" {
			haystack := strings.ToLower(strings.Join([]string{c.Title, c.Description, c.TeacherUsername, c.TopicName}, " "))
			if !strings.Contains(haystack, needle) {
				continue
			}
		}
		courses = append(courses, *c)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].CreatedAt.After(courses[j].CreatedAt) })
	if filter.Limit > 0 && len(courses) > filter.Limit {
		courses = courses[:filter.Limit]
	}
	return courses, nil
}

func (r *memCourses) FindBySlug(_ context.Context, slug string) (*models.Course, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range r.db.courses {
		if c.Slug == slug {
			copy := *c
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memCourses) FindByID(_ context.Context, id string) (*models.Course, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if c, ok := r.db.courses[id]; ok {
		copy := *c
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (r *memCourses) ExistsBySlug(_ context.Context, slug string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range r.db.courses {
		if c.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *memCourses) Create(_ context.Context, course *models.Course) error {
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range r.db.courses {
		if c.Slug == course.Slug {
			return uniqueViolation()
		}
	}
	course.ID = r.db.nextID("course")
	course.CreatedAt = time.Now().Add(time.Duration(r.db.seq) * time.Second)
	copy := *course
	r.db.courses[course.ID] = &copy
	return nil
}

func (r *memCourses) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.courses[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.db.courses, id)
	for vid, v := range r.db.videos {
		if v.CourseID == id {
			delete(r.db.videos, vid)
		}
	}
	return nil
}

func (r *memCourses) IncrementViews(_ context.Context, id string) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.courses[id]
	if !ok {
		return 0, sql.ErrNoRows
	}
	c.ViewCount++
	return c.ViewCount, nil
}

func (r *memCourses) Aggregates(_ context.Context, courseID string) (*models.CourseAggregates, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	agg := &models.CourseAggregates{}
	students := map[string]struct{}{}
	for _, rating := range r.db.ratings {
		if rating.CourseID == courseID {
			agg.RatingCount++
			agg.RatingSum += int64(rating.Rating)
			students[rating.UserID] = struct{}{}
		}
	}
	for _, v := range r.db.videos {
		if v.CourseID != courseID {
			continue
		}
		agg.VideoCount++
		if v.DurationSeconds != nil {
			agg.DurationSeconds += int64(*v.DurationSeconds)
		}
		for _, p := range r.db.progress {
			if p.VideoID == v.ID {
				students[p.UserID] = struct{}{}
			}
		}
	}
	for id := range students {
		if u, ok := r.db.users[id]; ok && u.Role != models.RoleTeacher {
			agg.StudentCount++
		}
	}
	return agg, nil
}

func (r *memCourses) ListByTeacherWithVideoCount(_ context.Context, teacherID string) ([]models.CourseWithVideoCount, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	rows := make([]models.CourseWithVideoCount, 0)
	for _, c := range r.db.courses {
		if c.TeacherID != teacherID {
			continue
		}
		row := models.CourseWithVideoCount{Course: *c}
		for _, v := range r.db.videos {
			if v.CourseID == c.ID {
				row.VideoCount++
			}
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return rows, nil
}

type memVideos struct{ db *memDB }

func (r memVideos) ListByCourse(_ context.Context, courseID string) ([]models.Video, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	videos := make([]models.Video, 0)
	for _, v := range r.db.videos {
		if v.CourseID == courseID {
			videos = append(videos, *v)
		}
	}
	sort.Slice(videos, func(i, j int) bool {
		if videos[i].Order != videos[j].Order {
			return videos[i].Order < videos[j].Order
		}
		return videos[i].CreatedAt.Before(videos[j].CreatedAt)
	})
	return videos, nil
}

func (r memVideos) FindByID(_ context.Context, id string) (*models.Video, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if v, ok := r.db.videos[id]; ok {
		copy := *v
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (r memVideos) Create(_ context.Context, video *models.Video) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	video.ID = r.db.nextID("video")
	video.CreatedAt = time.Now().UTC()
	copy := *video
	r.db.videos[video.ID] = &copy
	return nil
}

func (r memVideos) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.videos[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.db.videos, id)
	return nil
}

func (r memVideos) IncrementViews(_ context.Context, id string) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	v, ok := r.db.videos[id]
	if !ok {
		return 0, sql.ErrNoRows
	}
	v.ViewCount++
	return v.ViewCount, nil
}

type memEngagement struct{ db *memDB }

func bookmarkKey(userID, videoID string) string { return userID + "|" + videoID }

func (r memEngagement) DeleteBookmark(_ context.Context, userID, videoID string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := bookmarkKey(userID, videoID)
	if _, ok := r.db.bookmarks[key]; !ok {
		return false, nil
	}
	delete(r.db.bookmarks, key)
	return true, nil
}

func (r memEngagement) InsertBookmark(_ context.Context, userID, videoID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := bookmarkKey(userID, videoID)
	if _, ok := r.db.bookmarks[key]; !ok {
		r.db.bookmarks[key] = time.Now()
	}
	return nil
}

func (r memEngagement) IsBookmarked(_ context.Context, userID, videoID string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	_, ok := r.db.bookmarks[bookmarkKey(userID, videoID)]
	return ok, nil
}

func (r memEngagement) ListBookmarkDetails(_ context.Context, userID string) ([]models.BookmarkDetail, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	details := make([]models.BookmarkDetail, 0)
	for key, createdAt := range r.db.bookmarks {
		parts := strings.SplitN(key, "|", 2)
		if parts[0] != userID {
			continue
		}
		video := r.db.videos[parts[1]]
		course := r.db.courses[video.CourseID]
		details = append(details, models.BookmarkDetail{
			Bookmark:    models.Bookmark{UserID: userID, VideoID: video.ID, CreatedAt: createdAt},
			VideoTitle:  video.Title,
			CourseID:    course.ID,
			CourseTitle: course.Title,
			CourseSlug:  course.Slug,
		})
	}
	return details, nil
}

func (r memEngagement) CreateComment(_ context.Context, comment *models.Comment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	comment.ID = r.db.nextID("comment")
	comment.CreatedAt = time.Now().Add(time.Duration(r.db.seq) * time.Second)
	r.db.comments = append(r.db.comments, *comment)
	return nil
}

func (r memEngagement) ListComments(_ context.Context, videoID string) ([]models.Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	comments := make([]models.Comment, 0)
	for _, c := range r.db.comments {
		if c.VideoID == videoID {
			comments = append(comments, c)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].CreatedAt.After(comments[j].CreatedAt) })
	return comments, nil
}

func (r memEngagement) UpsertProgress(_ context.Context, progress *models.VideoProgress) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := bookmarkKey(progress.UserID, progress.VideoID)
	if existing, ok := r.db.progress[key]; ok {
		progress.ID = existing.ID
	} else {
		progress.ID = r.db.nextID("progress")
	}
	copy := *progress
	r.db.progress[key] = &copy
	return nil
}

func (r memEngagement) FindProgress(_ context.Context, userID, videoID string) (*models.VideoProgress, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if p, ok := r.db.progress[bookmarkKey(userID, videoID)]; ok {
		copy := *p
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

type memRatings struct{ db *memDB }

func (r memRatings) Exists(_ context.Context, userID, courseID string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, rating := range r.db.ratings {
		if rating.UserID == userID && rating.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (r memRatings) Create(_ context.Context, rating *models.CourseRating) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.ratings {
		if existing.UserID == rating.UserID && existing.CourseID == rating.CourseID {
			return uniqueViolation()
		}
	}
	rating.ID = r.db.nextID("rating")
	rating.CreatedAt = time.Now().Add(time.Duration(r.db.seq) * time.Second)
	r.db.ratings = append(r.db.ratings, *rating)
	return nil
}

func (r memRatings) ListByCourse(_ context.Context, courseID string) ([]models.CourseRating, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	ratings := make([]models.CourseRating, 0)
	for _, rating := range r.db.ratings {
		if rating.CourseID == courseID {
			ratings = append(ratings, rating)
		}
	}
	sort.Slice(ratings, func(i, j int) bool { return ratings[i].CreatedAt.After(ratings[j].CreatedAt) })
	return ratings, nil
}

// fakeMedia records stored and removed paths without touching disk.
type fakeMedia struct {
	stored  []string
	removed []string
}

func (m *fakeMedia) StoreImage(dir string, upload *models.FileUpload) (string, error) {
	if upload == nil {
		return "", nil
	}
	p := dir + "/" + upload.Filename
	m.stored = append(m.stored, p)
	return p, nil
}

func (m *fakeMedia) Remove(paths ...string) {
	m.removed = append(m.removed, paths...)
}

// memCache serialises values as JSON like the redis-backed repository does.
type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deletes []string
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
		c.deletes = append(c.deletes, key)
	}
	return nil
}
