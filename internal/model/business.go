package model

import "golang.org/x/crypto/bcrypt"

// Business is a tenant. Every other record is scoped by a business id.
type Business struct {
	BaseModel
	Name     string `gorm:"type:varchar(100);not null" json:"name"`
	Email    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password string `gorm:"type:varchar(255);not null" json:"-"`
}

// SetPassword hashes and sets the business account password
func (b *Business) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	b.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (b *Business) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(b.Password), []byte(password)) == nil
}
