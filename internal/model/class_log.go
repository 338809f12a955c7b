package model

import "time"

// ClassLog is one lesson record exported by the teaching system.
type ClassLog struct {
	ID           string    `json:"id"`
	StudentClass string    `json:"student_class"`
	Teacher      string    `json:"teacher"`
	Course       string    `json:"course"`
	CourseType   string    `json:"course_type"`
	Content      string    `json:"content"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	UpdateDate   time.Time `json:"update_date"`
}

// ClassLogFilter narrows class log listings.
type ClassLogFilter struct {
	StudentClass string
	Limit        int
	Offset       int
}

// ListClassLogsQuery is the query string accepted by the class log listing.
type ListClassLogsQuery struct {
	StudentClass string `form:"student_class" json:"student_class" binding:"omitempty,max=10"`
	Page         int    `form:"page" json:"page" binding:"omitempty,min=1"`
	PerPage      int    `form:"per_page" json:"per_page" binding:"omitempty,min=1,max=200"`
}
