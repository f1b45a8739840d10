package dto

import "github.com/noah-isme/learnhub-api/internal/models"

// Dashboard is a role-specific landing payload. Exactly one of Teacher or Student is set.
type Dashboard struct {
	Role    models.Role       `json:"role"`
	Teacher *TeacherDashboard `json:"teacher,omitempty"`
	Student *StudentDashboard `json:"student,omitempty"`
}

// TeacherDashboard summarises the teacher's own courses.
type TeacherDashboard struct {
	Courses      []models.CourseWithVideoCount `json:"courses"`
	TotalCourses int                           `json:"total_courses"`
	TotalVideos  int                           `json:"total_videos"`
}

// StudentDashboard lists bookmarks and the newest courses on the platform.
type StudentDashboard struct {
	Bookmarks      []models.BookmarkDetail `json:"bookmarked_videos"`
	RecentCourses  []models.Course         `json:"recent_courses"`
	TotalBookmarks int                     `json:"total_bookmarks"`
}
