package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jeyapragash1/Smart-Citizen-sub000/models"
	"github.com/jeyapragash1/Smart-Citizen-sub000/storage"

	"github.com/google/uuid"
)

// CertificateService issues certificates for completed applications: it
// renders the document, stores it in the document bucket and records the
// Certificate row.
type CertificateService struct{}

func NewCertificateService() *CertificateService {
	return &CertificateService{}
}

// Issue creates the certificate for a completed application. Issuing twice
// for the same application returns the existing certificate.
func (cs *CertificateService) Issue(ctx context.Context, app *models.Application, issuedBy uint) (*models.Certificate, error) {
	if app.Status != models.StatusCompleted {
		return nil, fmt.Errorf("application %d is not completed", app.ID)
	}

	var existing models.Certificate
	if err := storage.DB.Where("application_id = ?", app.ID).First(&existing).Error; err == nil {
		return &existing, nil
	}

	serial := uuid.NewString()
	objectKey := fmt.Sprintf("certificates/%d/%s.txt", app.ID, serial)

	cert := models.Certificate{
		ApplicationID: app.ID,
		SerialNumber:  serial,
		CitizenNIC:    app.Applicant.NIC,
		Type:          app.ServiceType,
		ObjectKey:     objectKey,
		IssuedByID:    issuedBy,
		IssuedAt:      time.Now(),
	}

	if storage.Documents != nil {
		body := renderCertificate(app, &cert)
		if err := storage.Documents.Put(ctx, objectKey, []byte(body), "text/plain; charset=utf-8"); err != nil {
			// The row is still created; the document can be regenerated later.
			log.Printf("failed to upload certificate document for application %d: %v", app.ID, err)
		}
	}

	if err := storage.DB.Create(&cert).Error; err != nil {
		return nil, err
	}
	return &cert, nil
}

// DownloadURL returns a presigned link for the stored document.
func (cs *CertificateService) DownloadURL(ctx context.Context, cert *models.Certificate) (string, error) {
	if storage.Documents == nil {
		return "", fmt.Errorf("document storage is not configured")
	}
	return storage.Documents.PresignedURL(ctx, cert.ObjectKey, 15*time.Minute)
}

func renderCertificate(app *models.Application, cert *models.Certificate) string {
	var b strings.Builder
	b.WriteString("GOVERNMENT OF SRI LANKA\n")
	b.WriteString(strings.ToUpper(app.ServiceType) + "\n\n")
	fmt.Fprintf(&b, "Serial Number : %s\n", cert.SerialNumber)
	fmt.Fprintf(&b, "Holder NIC    : %s\n", cert.CitizenNIC)
	fmt.Fprintf(&b, "Holder Name   : %s\n", app.Applicant.FullName)
	fmt.Fprintf(&b, "Issued At     : %s\n", cert.IssuedAt.Format(time.RFC1123))
	b.WriteString("\nThis certificate was issued after approval at the Grama Niladhari,\n")
	b.WriteString("Divisional Secretariat, District Secretariat and Ministry levels.\n")
	return b.String()
}
