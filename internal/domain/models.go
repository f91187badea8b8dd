package domain

import "time"

// Student is a person who can be enrolled in courses
type Student struct {
	ID          uint         `gorm:"column:student_id;primaryKey;autoIncrement"`
	RollNumber  string       `gorm:"column:roll_number;type:varchar(50);uniqueIndex;not null"`
	FirstName   string       `gorm:"column:first_name;type:varchar(50);not null"`
	LastName    string       `gorm:"column:last_name;type:varchar(50)"`
	Enrollments []Enrollment `gorm:"foreignKey:StudentID"`
	CreatedAt   time.Time    `gorm:"not null"`
	UpdatedAt   time.Time    `gorm:"not null"`
}

func (Student) TableName() string { return "students" }

// FullName joins first and last name, omitting an empty last name
func (s *Student) FullName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// Course is an offering students enroll in; CourseCode is the business key
type Course struct {
	ID                uint         `gorm:"column:course_id;primaryKey;autoIncrement"`
	CourseCode        string       `gorm:"column:course_code;type:varchar(200);uniqueIndex;not null"`
	CourseName        string       `gorm:"column:course_name;type:varchar(50);not null"`
	CourseDescription string       `gorm:"column:course_description;type:varchar(500)"`
	Enrollments       []Enrollment `gorm:"foreignKey:CourseID"`
	CreatedAt         time.Time    `gorm:"not null"`
	UpdatedAt         time.Time    `gorm:"not null"`
}

func (Course) TableName() string { return "courses" }

// Enrollment links one student to one course
type Enrollment struct {
	ID        uint      `gorm:"column:enrollment_id;primaryKey;autoIncrement"`
	StudentID uint      `gorm:"column:student_id;not null;uniqueIndex:idx_enrollment_student_course"`
	CourseID  uint      `gorm:"column:course_id;not null;uniqueIndex:idx_enrollment_student_course;index"`
	Student   *Student  `gorm:"foreignKey:StudentID;references:ID"`
	Course    *Course   `gorm:"foreignKey:CourseID;references:ID"`
	CreatedAt time.Time `gorm:"not null"`
}

func (Enrollment) TableName() string { return "enrollments" }

// Mark is one imported row of the marks CSV. Ids are not foreign keys: the
// sheet may mention students or courses that were never registered here.
type Mark struct {
	ID        uint `gorm:"column:mark_id;primaryKey;autoIncrement"`
	StudentID uint `gorm:"column:student_id;not null;index"`
	CourseID  uint `gorm:"column:course_id;not null;index"`
	Marks     int  `gorm:"column:marks;not null"`
	// Line is the 1-based CSV line the row came from; keeps file order stable
	Line       int       `gorm:"column:line;not null"`
	ImportedAt time.Time `gorm:"not null"`
}

func (Mark) TableName() string { return "marks" }

// DefaultCourses are seeded into an empty database
func DefaultCourses() []Course {
	return []Course{
		{CourseCode: "CSE01", CourseName: "MAD 1", CourseDescription: "Modern Application Development - I"},
		{CourseCode: "CSE02", CourseName: "DBMS", CourseDescription: "Database management Systems"},
		{CourseCode: "CSE03", CourseName: "PDSA", CourseDescription: "Programming, Data Structures and Algorithms using Python"},
		{CourseCode: "BST13", CourseName: "BDM", CourseDescription: "Business Data Management"},
	}
}
