package config

import (
	"errors"
	"fmt"
	"log"

	"statefin-backend/internal/adapters/persistence/models"
	"statefin-backend/internal/core/domain"
	"statefin-backend/internal/pkg/password"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var seedResources = []string{"USER", "ROLE", "PERMISSION", "DECISION", "DECISION_TYPE", "DECISION_MAKING_BODY"}

var seedActions = []string{"READ", "WRITE", "DELETE"}

type seedUser struct {
	username  string
	email     string
	password  string
	firstName string
	lastName  string
	role      string
}

// Demo accounts for development; rotate the passwords in production
var seedUsers = []seedUser{
	{"admin", "admin@statefin.com", "Admin123!", "System", "Administrator", domain.RoleAdmin},
	{"manager", "manager@demo.com", "Manager123!", "Demo", "Manager", domain.RoleManager},
	{"user", "user@demo.com", "User123!", "Demo", "User", domain.RoleUser},
}

// Seeder handles database seeding
type Seeder struct {
	db     *gorm.DB
	hasher *password.Hasher
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, bcryptCost int) *Seeder {
	return &Seeder{db: db, hasher: password.NewHasher(bcryptCost)}
}

// Run seeds permissions, the built-in roles and the demo accounts.
// Rows that already exist are left untouched, so it is safe on every startup.
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	err := s.db.Transaction(func(tx *gorm.DB) error {
		perms, err := s.seedPermissions(tx)
		if err != nil {
			return fmt.Errorf("permissions: %w", err)
		}

		roles, err := s.seedRoles(tx, perms)
		if err != nil {
			return fmt.Errorf("roles: %w", err)
		}

		if err := s.seedUsers(tx, roles); err != nil {
			return fmt.Errorf("users: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Println("✅ Database seeding completed")
	return nil
}

func (s *Seeder) seedPermissions(tx *gorm.DB) (map[string]uint, error) {
	names := make([]*models.Permission, 0, len(seedResources)*len(seedActions)+1)
	for _, resource := range seedResources {
		for _, action := range seedActions {
			names = append(names, &models.Permission{Resource: resource, Action: action})
		}
	}
	names = append(names, &models.Permission{Resource: "ROLE", Action: "MANAGE"})

	ids := make(map[string]uint, len(names))
	for _, p := range names {
		p.Name = p.Resource + "_" + p.Action
		p.Description = fmt.Sprintf("%s %s", p.Action, p.Resource)
		p.Active = true
		if err := tx.Where(models.Permission{Name: p.Name}).Attrs(*p).FirstOrCreate(p).Error; err != nil {
			return nil, err
		}
		ids[p.Name] = p.ID
	}
	return ids, nil
}

func (s *Seeder) seedRoles(tx *gorm.DB, perms map[string]uint) (map[string]uint, error) {
	all := make([]string, 0, len(perms))
	for name := range perms {
		all = append(all, name)
	}

	grants := []struct {
		name        string
		description string
		permissions []string
	}{
		{domain.RoleUser, "Default role for registered users", nil},
		{domain.RoleManager, "Manages user accounts", []string{"USER_READ", "USER_WRITE"}},
		{domain.RoleAdmin, "Full access", all},
	}

	ids := make(map[string]uint, len(grants))
	for _, g := range grants {
		role := models.Role{Name: g.name, Description: g.description, Active: true}
		if err := tx.Where(models.Role{Name: g.name}).Attrs(role).FirstOrCreate(&role).Error; err != nil {
			return nil, err
		}
		ids[g.name] = role.ID

		for _, name := range g.permissions {
			link := models.RolePermission{RoleID: role.ID, PermissionID: perms[name]}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
				return nil, err
			}
		}
	}
	return ids, nil
}

func (s *Seeder) seedUsers(tx *gorm.DB, roles map[string]uint) error {
	for _, su := range seedUsers {
		var user models.User
		err := tx.Where("username = ?", su.username).First(&user).Error
		switch {
		case err == nil:
			continue
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		hash, err := s.hasher.Hash(su.password)
		if err != nil {
			return err
		}
		user = models.User{
			Username:  su.username,
			Email:     su.email,
			Password:  hash,
			FirstName: su.firstName,
			LastName:  su.lastName,
			Active:    true,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		link := models.UserRole{UserID: user.ID, RoleID: roles[su.role]}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
			return err
		}
		log.Printf("✅ Seeded user: %s (%s)", su.username, su.role)
	}
	return nil
}
