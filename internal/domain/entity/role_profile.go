package entity

// Role profiles model a tagged union: the user's role determines which of
// the three variants exists, at most one per user, keyed by user id.
// Changing a user's role deletes the old variant and creates the new one.

type InstructorProfile struct {
	UserID    uint    `gorm:"primaryKey" json:"user_id"`
	Specialty *string `gorm:"type:varchar(120)" json:"specialty,omitempty"`
	ClinicID  *uint   `gorm:"index" json:"clinic_id,omitempty"`

	User   User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Clinic *Clinic `gorm:"foreignKey:ClinicID;constraint:OnDelete:SET NULL" json:"clinic,omitempty"`
}

func (InstructorProfile) TableName() string {
	return "instructor_profiles"
}

type StudentProfile struct {
	UserID           uint    `gorm:"primaryKey" json:"user_id"`
	EnrollmentNumber *string `gorm:"type:varchar(50)" json:"enrollment_number,omitempty"`
	Phone            *string `gorm:"type:varchar(30)" json:"phone,omitempty"`
	ClinicID         *uint   `gorm:"index" json:"clinic_id,omitempty"`

	User   User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Clinic *Clinic `gorm:"foreignKey:ClinicID;constraint:OnDelete:SET NULL" json:"clinic,omitempty"`
}

func (StudentProfile) TableName() string {
	return "student_profiles"
}

type ReceptionistProfile struct {
	UserID uint    `gorm:"primaryKey" json:"user_id"`
	Phone  *string `gorm:"type:varchar(30)" json:"phone,omitempty"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ReceptionistProfile) TableName() string {
	return "receptionist_profiles"
}
