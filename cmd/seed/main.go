package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"backoffice/internal/database"
	"backoffice/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "backoffice.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data in FK-safe order
	log.Println("Cleaning old data...")
	for _, table := range []string{
		"emails",
		"messages",
		"conversation_participants",
		"conversations",
		"contract_history",
		"contract_signatures",
		"contract_tokens",
		"contracts",
		"quotation_tab_links",
		"quotation_items",
		"quotation_tabs",
		"quotations",
		"concept_price_overrides",
		"concept_price_history",
		"concepts",
		"concept_categories",
		"users",
	} {
		db.Exec("DELETE FROM " + table)
	}

	// ================== USERS ==================
	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@backoffice.mx",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		Name:         "Administrador",
		IsActive:     true,
	}
	db.Create(&admin)
	log.Println("Admin created: admin@backoffice.mx / admin123")

	operators := []domain.User{}
	for i, email := range []string{"laura@backoffice.mx", "carlos@backoffice.mx"} {
		hash, _ := bcrypt.GenerateFromPassword([]byte("operator123"), bcrypt.DefaultCost)
		op := domain.User{
			Email:        email,
			PasswordHash: string(hash),
			Role:         domain.RoleOperator,
			Name:         fmt.Sprintf("Operador %d", i+1),
			Phone:        fmt.Sprintf("+52 55 1234 56%02d", i+10),
			IsActive:     true,
		}
		db.Create(&op)
		operators = append(operators, op)
	}

	collabHash, _ := bcrypt.GenerateFromPassword([]byte("collab123"), bcrypt.DefaultCost)
	collaborator := domain.User{
		Email:        "proveedor@seguridadtotal.mx",
		PasswordHash: string(collabHash),
		Role:         domain.RoleCollaborator,
		Name:         "Seguridad Total SA de CV",
		Phone:        "+52 55 9876 5432",
		IsActive:     true,
	}
	db.Create(&collaborator)

	// ================== CATALOG ==================
	log.Println("Creating concept catalog...")

	for _, name := range []string{"Videovigilancia", "Control de acceso", "Instalación"} {
		db.Create(&domain.ConceptCategory{Name: name})
	}

	concepts := []domain.Concept{
		{Title: "Cámara IP 4MP", Description: "Cámara tipo bala para exterior", Price: 1850, Unit: "pieza", Category: "Videovigilancia", SATCode: "46171610", IsActive: true},
		{Title: "NVR 16 canales", Description: "Grabador de red con 4TB", Price: 9200, Unit: "pieza", Category: "Videovigilancia", SATCode: "46171622", IsActive: true},
		{Title: "Lector biométrico", Description: "Huella y tarjeta MIFARE", Price: 3100, Unit: "pieza", Category: "Control de acceso", SATCode: "46171619", IsActive: true},
		{Title: "Cable UTP cat6", Description: "Bobina 305m exterior", Price: 2450, Unit: "bobina", Category: "Instalación", SATCode: "26121609", IsActive: true},
		{Title: "Mano de obra instalación", Description: "Jornada de técnico certificado", Price: 1200, Unit: "jornada", Category: "Instalación", SATCode: "72101511", IsActive: true},
	}
	for i := range concepts {
		db.Create(&concepts[i])
	}

	// ================== SAMPLE QUOTATION ==================
	log.Println("Creating sample quotation...")

	q := domain.Quotation{
		Title:       "CCTV oficinas corporativas",
		ClientID:    collaborator.ID,
		Status:      domain.QuotationDraft,
		PaymentType: domain.PaymentOneTime,
		Subtotal:    9800,
		Tax:         1568,
		Total:       11368,
		Version:     1,
	}
	db.Create(&q)

	equiposTab := domain.QuotationTab{QuotationID: q.ID, Section: domain.SectionEquipment, Label: "General", Position: 0}
	laborTab := domain.QuotationTab{QuotationID: q.ID, Section: domain.SectionLabor, Label: "General", Position: 0}
	db.Create(&equiposTab)
	db.Create(&domain.QuotationTab{QuotationID: q.ID, Section: domain.SectionMaterials, Label: "General", Position: 0})
	db.Create(&laborTab)

	db.Create(&domain.QuotationItem{
		QuotationID: q.ID,
		TabID:       &equiposTab.ID,
		ConceptID:   &concepts[0].ID,
		Section:     domain.SectionEquipment,
		Quantity:    4,
		UnitPrice:   concepts[0].Price,
		Total:       4 * concepts[0].Price,
	})
	db.Create(&domain.QuotationItem{
		QuotationID: q.ID,
		TabID:       &laborTab.ID,
		ConceptID:   &concepts[4].ID,
		Section:     domain.SectionLabor,
		Quantity:    2,
		UnitPrice:   concepts[4].Price,
		Total:       2 * concepts[4].Price,
	})
	db.Create(&domain.TabLink{
		QuotationID: q.ID,
		SourceTabID: equiposTab.ID,
		TargetTabID: laborTab.ID,
	})

	// ================== SAMPLE CONTRACT ==================
	log.Println("Creating sample contract...")

	start := time.Now().AddDate(0, 0, 7)
	end := start.AddDate(1, 0, 0)
	db.Create(&domain.Contract{
		Title:           "Servicio de monitoreo anual",
		Description:     "Monitoreo CCTV 24/7 con reportes mensuales",
		CounterpartyID:  collaborator.ID,
		CounterpartRole: domain.SignerProvider,
		Status:          domain.ContractDraft,
		StartDate:       &start,
		EndDate:         &end,
	})

	// ================== CHAT ==================
	log.Println("Creating sample conversation...")

	title := "Cotización Grupo Industrial"
	conv := domain.Conversation{Title: &title}
	db.Create(&conv)
	db.Create(&domain.ConversationParticipant{ConversationID: conv.ID, UserID: admin.ID})
	db.Create(&domain.ConversationParticipant{ConversationID: conv.ID, UserID: operators[0].ID})
	db.Create(&domain.Message{
		ConversationID: conv.ID,
		SenderID:       operators[0].ID,
		Content:        "Ya quedó el borrador de la cotización, ¿la revisas antes de enviarla?",
	})

	// ================== MAIL ==================
	log.Println("Creating sample mail...")

	db.Create(&domain.Email{
		OwnerID:     operators[0].ID,
		Folder:      domain.FolderInbox,
		FromAddress: "compras@gruponorte.mx",
		ToAddress:   operators[0].Email,
		Subject:     "Solicitud de cotización CCTV",
		Body:        "<p>Buen día, nos interesa una cotización para 4 cámaras en oficinas.</p>",
	})

	log.Println("Seed completed")
	log.Println("Test accounts:")
	log.Println("Admin: admin@backoffice.mx / admin123")
	log.Println("Operators: laura@backoffice.mx, carlos@backoffice.mx / operator123")
	log.Println("Collaborator: proveedor@seguridadtotal.mx / collab123")
}
