package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	config "github.com/anjiri1684/fee_collect/configs"
	"github.com/anjiri1684/fee_collect/models"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReceiptService struct {
	DB           *gorm.DB
	TemplatePath string
}

func NewReceiptService(db *gorm.DB) *ReceiptService {
	return &ReceiptService{DB: db, TemplatePath: "templates/receipt.html"}
}

// GenerateReceipt renders a PDF receipt for a paid payment, uploads it and
// persists the URL on the payment row.
func (s *ReceiptService) GenerateReceipt(payment models.Payment) (string, error) {
	if payment.Status != models.PaymentStatusPaid {
		return "", fmt.Errorf("receipts are only generated for paid payments")
	}

	htmlData, err := s.renderReceiptHTML(payment)
	if err != nil {
		return "", fmt.Errorf("failed to render receipt HTML: %v", err)
	}

	pdfBytes, err := generatePDFFromHTML(htmlData)
	if err != nil {
		return "", fmt.Errorf("failed to generate PDF: %v", err)
	}

	uploadURL, err := uploadReceiptToCloudinary(pdfBytes, payment.ID.String())
	if err != nil {
		return "", fmt.Errorf("failed to upload receipt: %v", err)
	}

	if err := s.DB.Model(&models.Payment{}).
		Where("id = ?", payment.ID).
		Update("receipt_url", uploadURL).Error; err != nil {
		log.Printf("🔥 Failed to save receipt URL for payment %s: %v", payment.ID, err)
		return "", err
	}

	log.Printf("✅ Generated receipt for payment %s", payment.ID)
	return uploadURL, nil
}

func (s *ReceiptService) renderReceiptHTML(payment models.Payment) (string, error) {
	tmpl, err := template.ParseFiles(s.TemplatePath)
	if err != nil {
		return "", err
	}

	receiptNumber := ""
	if payment.ReceiptNumber != nil {
		receiptNumber = *payment.ReceiptNumber
	}
	transactionID := ""
	if payment.TransactionID != nil {
		transactionID = *payment.TransactionID
	}
	method := "Online"
	if payment.PaymentMethod != nil {
		method = *payment.PaymentMethod
	}

	data := struct {
		StudentName   string
		StudentRoll   string
		EventName     string
		Amount        string
		Method        string
		ReceiptNumber string
		TransactionID string
		PaymentDate   string
	}{
		StudentName:   payment.Student.Name,
		StudentRoll:   payment.Student.RollNo,
		EventName:     payment.Event.Name,
		Amount:        fmt.Sprintf("₹%.2f", payment.Amount),
		Method:        method,
		ReceiptNumber: receiptNumber,
		TransactionID: transactionID,
		PaymentDate:   payment.PaymentDate.Format("January 2, 2006"),
	}

	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, data); err != nil {
		return "", err
	}
	return rendered.String(), nil
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadReceiptToCloudinary(fileBytes []byte, paymentID string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("receipts/%s_%s", paymentID, uuid.New().String()),
		Folder:       "fee_collect_receipts",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}
