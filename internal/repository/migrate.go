package repository

import "gorm.io/gorm"

// AutoMigrate creates or alters every table from the GORM models. Used in
// development and tests; other environments apply migrations/*.sql.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{}, &HotelModel{}, &RoomTypeModel{}, &BookingModel{},
		&ReviewModel{}, &ComplaintModel{}, &AuditModel{},
	)
}
