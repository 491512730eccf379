package routes

import (
	"github.com/jeyapragash1/Smart-Citizen-sub000/models"
	"github.com/jeyapragash1/Smart-Citizen-sub000/services"
	"github.com/jeyapragash1/Smart-Citizen-sub000/storage"
	"github.com/jeyapragash1/Smart-Citizen-sub000/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// GetMyCertificates lists certificates issued to the authenticated citizen.
func GetMyCertificates(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var certificates []models.Certificate
	storage.DB.Where("citizen_nic = ?", claims.NIC).
		Order("issued_at DESC").
		Find(&certificates)

	ctx.JSON(certificates)
}

// DownloadCertificate returns a presigned URL for the certificate document.
// Only the holder (or an admin) may download, and only certificates backed
// by a Completed application exist in the first place.
func DownloadCertificate(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid certificate id.", ctx)
		return
	}

	var cert models.Certificate
	if err := storage.DB.First(&cert, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if cert.CitizenNIC != claims.NIC &&
		claims.Role != models.RoleAdmin && claims.Role != models.RoleSuperAdmin {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	url, urlErr := services.NewCertificateService().DownloadURL(ctx.Request().Context(), &cert)
	if urlErr != nil {
		utils.CreateError(iris.StatusServiceUnavailable, "Storage Error",
			"Certificate document is currently unavailable.", ctx)
		return
	}

	ctx.JSON(iris.Map{"url": url, "serialNumber": cert.SerialNumber})
}

// VerifyCertificate is a public lookup by serial number, so third parties
// can confirm a certificate is genuine without seeing the document.
func VerifyCertificate(ctx iris.Context) {
	serial := ctx.Params().Get("serial")

	var cert models.Certificate
	if err := storage.DB.Where("serial_number = ?", serial).First(&cert).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"serialNumber": cert.SerialNumber,
		"type":         cert.Type,
		"issuedAt":     cert.IssuedAt,
		"valid":        true,
	})
}
