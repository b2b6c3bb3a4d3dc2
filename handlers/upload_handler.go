package handlers

import (
	"net/url"
	"strconv"
	"time"

	"github.com/anjiri1684/fee_collect/apperrors"
	config "github.com/anjiri1684/fee_collect/configs"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v2"
)

const uploadFolder = "fee_collect_uploads"

// GenerateUploadSignature creates a secure signature for direct frontend
// uploads of QR code images and payment screenshots.
func GenerateUploadSignature(c *fiber.Ctx) error {
	cloudinaryURL := config.Config("CLOUDINARY_URL")
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return fail(c, apperrors.Internal("Failed to initialize Cloudinary"))
	}

	parsedURL, err := url.Parse(cloudinaryURL)
	if err != nil {
		return fail(c, apperrors.Internal("Failed to parse Cloudinary URL"))
	}
	secret, _ := parsedURL.User.Password()

	paramsToSign, err := api.StructToParams(uploader.UploadParams{
		Folder: uploadFolder,
	})
	if err != nil {
		return fail(c, apperrors.Internal("Failed to prepare signature params"))
	}

	timestamp := time.Now().Unix()
	paramsToSign.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(paramsToSign, secret)
	if err != nil {
		return fail(c, apperrors.Internal("Failed to sign upload params"))
	}

	return success(c, fiber.Map{
		"signature": signature,
		"timestamp": timestamp,
		"api_key":   cld.Config.Cloud.APIKey,
		"folder":    uploadFolder,
	})
}
