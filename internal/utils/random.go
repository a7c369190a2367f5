package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/bluewave-swim/backoffice/backend/internal/domain"
)

var firstNames = []string{
	"Ava", "Liam", "Mia", "Noah", "Zoe", "Ethan", "Chloe", "Lucas", "Isla", "Owen",
	"Maya", "Leo", "Ruby", "Finn", "Nora", "Eli", "Hazel", "Jack", "Ivy", "Theo",
}

var lastNames = []string{
	"Nguyen", "Smith", "Garcia", "Brown", "Patel", "Kim", "Martin", "Lee", "Walker", "Lopez",
	"Clark", "Young", "Wright", "Scott", "Green", "Baker", "Adams", "Hill", "Rivera", "Moore",
}

var digits = "0123456789"

func GenerateRandomSwimmerName() string {
	return firstNames[rand.Intn(len(firstNames))] + " " + lastNames[rand.Intn(len(lastNames))]
}

// GenerateRandomParentEmail derives a mailbox from the swimmer's last name so
// siblings tend to share a parent.
func GenerateRandomParentEmail(swimmerName string, emailDomainName string) string {
	parts := strings.Fields(strings.ToLower(swimmerName))
	local := "parent"
	if len(parts) > 0 {
		local = parts[len(parts)-1]
	}
	return fmt.Sprintf("%s%d@%s", local, rand.Intn(20), emailDomainName)
}

func GenerateRandomPhone() string {
	phone := make([]byte, 10)
	for i := range phone {
		phone[i] = digits[rand.Intn(len(digits))]
	}
	return fmt.Sprintf("(%s) %s-%s", phone[:3], phone[3:6], phone[6:])
}

func GenerateRandomLevel() domain.Level {
	// one in ten legacy rows carries no level at all
	if rand.Intn(10) == 0 {
		return ""
	}
	return domain.KnownLevels[rand.Intn(len(domain.KnownLevels))]
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	randomPassword := make([]rune, length)
	for i := range randomPassword {
		randomPassword[i] = letters[rand.Intn(len(letters))]
	}
	return string(randomPassword)
}

// Fisher-Yates shuffle, then keep a non-empty prefix
func GenerateRandomSubset(arr []string) []string {
	arrCopy := append([]string{}, arr...)

	for i := 0; i < len(arrCopy)-1; i++ {
		j := rand.Intn(len(arrCopy)-i) + i
		arrCopy[i], arrCopy[j] = arrCopy[j], arrCopy[i]
	}

	if len(arrCopy) == 0 {
		return arrCopy
	}
	l := rand.Intn(len(arrCopy)) + 1
	return arrCopy[:l]
}

// GenerateRandomSubmission fills a submission for the activity with a random
// subset of its slots. Some swimmers pick nothing at some locations.
func GenerateRandomSubmission(activity *domain.Activity, emailDomainName string) *domain.Submission {
	name := GenerateRandomSwimmerName()

	s := &domain.Submission{
		Season:      activity.Season,
		ActivityID:  activity.ID,
		SwimmerName: name,
		Level:       GenerateRandomLevel(),
		ParentEmail: GenerateRandomParentEmail(name, emailDomainName),
		ParentPhone: GenerateRandomPhone(),
		Preferences: make([]domain.Preference, 0, len(activity.Locations)),
		SubmittedAt: time.Now().Add(-time.Duration(rand.Intn(14*24*60)) * time.Minute),
	}
	s.ID = s.Key().SubmissionID()

	for _, loc := range activity.Locations {
		if rand.Intn(3) == 0 {
			continue
		}
		s.Preferences = append(s.Preferences, domain.Preference{
			Location:   loc.Location,
			Selections: GenerateRandomSubset(loc.Slots),
		})
	}

	return s
}
