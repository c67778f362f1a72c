package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"ridemarket/internal/config"
	"ridemarket/internal/database"
	"ridemarket/internal/domain"
)

// Seeds an admin account, a few vehicles and a week of trips for local
// development. Safe to run repeatedly.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	if err := seedAdmin(db); err != nil {
		log.Fatal(err)
	}

	vehicles, err := seedVehicles(db)
	if err != nil {
		log.Fatal(err)
	}

	if err := seedTrips(db, vehicles); err != nil {
		log.Fatal(err)
	}

	log.Println("seed complete")
}

func seedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&domain.User{}).Where("email = ?", "admin@ridemarket.local").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin12345"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return db.Create(&domain.User{
		Email:        "admin@ridemarket.local",
		PasswordHash: string(hash),
		Name:         "Admin",
		IsAdmin:      true,
	}).Error
}

func seedVehicles(db *gorm.DB) ([]domain.Vehicle, error) {
	wanted := []domain.Vehicle{
		{Name: "Swift Dzire", Number: "MH12AA0001", Capacity: 5},
		{Name: "Innova Crysta SUV", Number: "MH12AA0002", Capacity: 7},
		{Name: "Force Traveller", Number: "MH12AA0003", Capacity: 13},
	}

	out := make([]domain.Vehicle, 0, len(wanted))
	for _, v := range wanted {
		var existing domain.Vehicle
		err := db.Where("number = ?", v.Number).First(&existing).Error
		if err == nil {
			out = append(out, existing)
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
		if err := db.Create(&v).Error; err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func seedTrips(db *gorm.DB, vehicles []domain.Vehicle) error {
	var count int64
	if err := db.Model(&domain.Trip{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	routes := []struct {
		source      string
		destination string
		duration    time.Duration
		price       float64
	}{
		{"Pune", "Mumbai", 3 * time.Hour, 450},
		{"Mumbai", "Pune", 3 * time.Hour, 450},
		{"Pune", "Nashik", 4 * time.Hour, 550},
	}

	start := time.Now().Truncate(24 * time.Hour).Add(30 * time.Hour)
	for day := 0; day < 7; day++ {
		for i, route := range routes {
			v := vehicles[(day+i)%len(vehicles)]
			departure := start.Add(time.Duration(day) * 24 * time.Hour).Add(time.Duration(i) * 2 * time.Hour)
			trip := domain.Trip{
				VehicleID:   v.ID,
				Source:      route.source,
				Destination: route.destination,
				Departure:   departure,
				Arrival:     departure.Add(route.duration),
				Price:       route.price,
			}
			if err := db.Create(&trip).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
