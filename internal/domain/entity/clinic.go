package entity

// Clinic is referenced by instructor and student profiles. Deleting a
// clinic nulls out those references (SET NULL foreign key policy).
type Clinic struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Code string `gorm:"type:varchar(30);uniqueIndex:uq_clinics_code;not null" json:"code"`
	Name string `gorm:"type:varchar(120);not null" json:"name"`
}

func (Clinic) TableName() string {
	return "clinics"
}
