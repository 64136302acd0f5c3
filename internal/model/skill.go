package model

import "time"

// Skill is a proficiency claim owned by a user.
//
// UserID is set once, from the caller's token, when the skill is created.
// Updates only touch SkillName and Proficiency.
type Skill struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	SkillName   string    `json:"skill_name"`
	Proficiency string    `json:"proficiency"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
