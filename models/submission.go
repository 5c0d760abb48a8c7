package models

import (
	"time"
)

type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "PENDING"
	SubmissionApproved SubmissionStatus = "APPROVED"
	SubmissionRejected SubmissionStatus = "REJECTED"
)

// Submission is a child's claim of a completed task, awaiting parent review.
type Submission struct {
	ID                 string           `gorm:"primaryKey;type:uuid" json:"id"`
	ChildID            string           `gorm:"type:uuid;not null;index" json:"child_id"`
	TaskID             string           `gorm:"type:uuid;not null;index" json:"task_id"`
	Status             SubmissionStatus `gorm:"type:varchar(12);not null;default:'PENDING';index" json:"status"`
	Note               string           `gorm:"type:text" json:"note"`
	BibleReference     string           `json:"bible_reference"`
	Reflection         string           `gorm:"type:text" json:"reflection"`
	CreatedAt          time.Time        `json:"created_at"`
	ApprovedAt         *time.Time       `json:"approved_at,omitempty"`
	ReviewedByParentID *string          `gorm:"type:uuid" json:"reviewed_by_parent_id,omitempty"`

	Task     Task                 `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	Evidence []SubmissionEvidence `gorm:"foreignKey:SubmissionID" json:"evidence,omitempty"`
}

// SubmissionEvidence is one uploaded proof file attached to a submission.
type SubmissionEvidence struct {
	ID           string    `gorm:"primaryKey;type:uuid" json:"id"`
	SubmissionID string    `gorm:"type:uuid;not null;index" json:"submission_id"`
	FilePath     string    `gorm:"not null" json:"file_path"`
	FileType     string    `json:"file_type"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}
