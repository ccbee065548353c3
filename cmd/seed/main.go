package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

// Demo-data seeder. Registers a handful of owners and renters against a
// running API, lists their vehicles and places overlapping bids so the
// approval sweep has something to chew on.

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Tel      string `json:"tel"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  struct {
		ID string `json:"id"`
	} `json:"user"`
}

type vehicleRequest struct {
	Name                  string `json:"name"`
	PlateNumber           string `json:"plate_number"`
	RentalPrice           int64  `json:"rental_price"`
	Seats                 int    `json:"seats"`
	RentalPriceOutStation int64  `json:"rental_price_out_station"`
	RatePerKm             int64  `json:"rate_per_km"`
	FixedKilometer        int64  `json:"fixed_kilometer"`
}

type bidRequest struct {
	Amount       int64     `json:"amount"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	IsOutStation bool      `json:"is_out_station"`
}

var vehicleNames = []string{"Swift Dzire", "Innova Crysta", "Hyundai i20", "Tata Nexon", "Mahindra Thar"}

func main() {
	apiURL := os.Getenv("API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api/v1"
	}

	owners := make([]loginResponse, 0, 2)
	for i := 0; i < 2; i++ {
		lr, err := register(apiURL, registerRequest{
			Username: fmt.Sprintf("owner%d", i+1),
			Email:    fmt.Sprintf("owner%d@example.com", i+1),
			Tel:      fmt.Sprintf("+9198765432%02d", i),
			Password: "ownerpassword",
			Role:     "owner",
		})
		if err != nil {
			log.WithError(err).Fatal("failed to register owner")
		}
		owners = append(owners, lr)
	}

	renters := make([]loginResponse, 0, 3)
	for i := 0; i < 3; i++ {
		lr, err := register(apiURL, registerRequest{
			Username: fmt.Sprintf("renter%d", i+1),
			Email:    fmt.Sprintf("renter%d@example.com", i+1),
			Tel:      fmt.Sprintf("+9191234567%02d", i),
			Password: "renterpassword",
			Role:     "renter",
		})
		if err != nil {
			log.WithError(err).Fatal("failed to register renter")
		}
		renters = append(renters, lr)
	}

	vehicleIDs := make([]string, 0, len(vehicleNames))
	for i, name := range vehicleNames {
		owner := owners[i%len(owners)]
		id, err := createVehicle(apiURL, owner.Token, vehicleRequest{
			Name:                  name,
			PlateNumber:           fmt.Sprintf("KA-%02d-%04d", i+1, 1000+rand.Intn(9000)),
			RentalPrice:           int64(800 + rand.Intn(1500)),
			Seats:                 4 + rand.Intn(4),
			RentalPriceOutStation: int64(1200 + rand.Intn(2000)),
			RatePerKm:             int64(4 + rand.Intn(6)),
			FixedKilometer:        int64(80 + rand.Intn(70)),
		})
		if err != nil {
			log.WithError(err).Fatal("failed to create vehicle")
		}
		vehicleIDs = append(vehicleIDs, id)
	}

	// Overlapping windows per vehicle so approving one bid sweeps the rest.
	base := time.Now().AddDate(0, 0, 7).Truncate(24 * time.Hour)
	placed := 0
	for _, vehicleID := range vehicleIDs {
		for j, renter := range renters {
			start := base.AddDate(0, 0, j)
			end := start.AddDate(0, 0, 3+rand.Intn(3))
			if err := placeBid(apiURL, renter.Token, vehicleID, bidRequest{
				Amount:    int64(500 + rand.Intn(4000)),
				StartDate: start,
				EndDate:   end,
			}); err != nil {
				log.WithError(err).WithField("vehicle_id", vehicleID).Warn("failed to place bid")
				continue
			}
			placed++
		}
	}

	log.WithFields(log.Fields{
		"owners":   len(owners),
		"renters":  len(renters),
		"vehicles": len(vehicleIDs),
		"bids":     placed,
	}).Info("seeding complete")
}

func register(apiURL string, req registerRequest) (loginResponse, error) {
	var lr loginResponse
	resp, err := postJSON(apiURL+"/auth/register", "", req)
	if err != nil {
		return lr, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		// Already seeded; log in instead.
		resp2, err := postJSON(apiURL+"/auth/login", "", map[string]string{
			"username": req.Username,
			"password": req.Password,
		})
		if err != nil {
			return lr, err
		}
		defer resp2.Body.Close()
		if resp2.StatusCode != http.StatusOK {
			return lr, fmt.Errorf("login failed with status %d", resp2.StatusCode)
		}
		err = json.NewDecoder(resp2.Body).Decode(&lr)
		return lr, err
	}
	if resp.StatusCode != http.StatusCreated {
		return lr, fmt.Errorf("registration failed with status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return lr, err
	}
	log.WithFields(log.Fields{"username": req.Username, "role": req.Role}).Info("registered user")
	return lr, nil
}

func createVehicle(apiURL, token string, req vehicleRequest) (string, error) {
	resp, err := postJSON(apiURL+"/vehicles", token, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("vehicle creation failed with status %d", resp.StatusCode)
	}
	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	log.WithFields(log.Fields{"vehicle_id": result.ID, "name": req.Name}).Info("created vehicle")
	return result.ID, nil
}

func placeBid(apiURL, token, vehicleID string, req bidRequest) error {
	resp, err := postJSON(apiURL+"/bids/"+vehicleID, token, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("bid creation failed with status %d", resp.StatusCode)
	}
	return nil
}

func postJSON(url, token string, body interface{}) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}
