// Package i18n holds the static localization table used for invoice documents,
// invoice e-mails and the admin screens.
package i18n

import (
	"context"
	"sort"
	"strings"
)

// DefaultLang is the bundle every lookup falls back to.
const DefaultLang = "fr"

// DocLabels are the document-facing strings (PDF and e-mail).
type DocLabels struct {
	Invoice      string
	Date         string
	BilledTo     string
	Description  string
	Qty          string
	Price        string
	Total        string
	Paid         string
	Signature    string
	Status       string
	Guest        string
	EmailSubject string
	EmailHello   string
	EmailBody    string
	EmailKind    string
	EmailTeam    string
}

// Bundle is the set of labels for one language.
type Bundle struct {
	Code       string
	Locale     string // BCP 47 tag used for number formatting
	DateLayout string
	Doc        DocLabels
	UI         map[string]string
}

// UIText returns the interface label for key, or key itself when unknown.
func (b Bundle) UIText(key string) string {
	if v, ok := b.UI[key]; ok && v != "" {
		return v
	}
	return key
}

var bundles = map[string]Bundle{
	"fr": {
		Code:       "fr",
		Locale:     "fr-FR",
		DateLayout: "02/01/2006",
		Doc: DocLabels{
			Invoice:      "FACTURE",
			Date:         "Date",
			BilledTo:     "Facturé à",
			Description:  "Description",
			Qty:          "Qté",
			Price:        "Prix",
			Total:        "TOTAL",
			Paid:         "PAYÉ",
			Signature:    "Signature",
			Status:       "Statut",
			Guest:        "Client invité",
			EmailSubject: "Votre facture pour la commande",
			EmailHello:   "Bonjour",
			EmailBody:    "Merci pour votre achat ! Veuillez trouver ci-joint votre facture au format PDF.",
			EmailKind:    "Cordialement",
			EmailTeam:    "L'équipe",
		},
		UI: map[string]string{
			"titles.dashboard": "Tableau de bord",
			"titles.welcome":   "Bienvenue",
			"titles.smtp":      "Connexion Gmail (SMTP)",
			"titles.nextSteps": "Étapes suivantes",
			"titles.settings":  "Personnalisation",
			"titles.orders":    "Mes Commandes",
			"titles.design":    "Style & Mise en page",
			"titles.identity":  "Identité & Mentions",
			"titles.images":    "Images",
			"titles.colors":    "Tailles & Couleurs",
			"titles.preview":   "APERÇU",
			"titles.config":    "Configuration",
			"titles.banner":    "Configuration du bandeau",
			"titles.invoice":   "Facture",

			"text.welcomeSub":  "Configurez ici les paramètres techniques.",
			"text.smtpSub":     "Nécessaire pour l'envoi d'email.",
			"text.step1":       "Personnalisez votre logo.",
			"text.step2":       "Gérez vos factures.",
			"text.saveSuccess": "Sauvegardé !",
			"text.saveError":   "Erreur.",
			"text.noOrders":    "Aucune commande pour l'instant.",
			"text.notFound":    "Commande introuvable.",
			"text.smtpReady":   "Gmail configuré",
			"text.smtpMissing": "Gmail non configuré",

			"labels.uiLang":         "Langue Interface (Vous)",
			"labels.docLang":        "Langue Documents (Clients)",
			"labels.gmailAddr":      "Email Gmail",
			"labels.gmailPass":      "Mot de passe app",
			"labels.saveConfig":     "Enregistrer",
			"labels.company":        "Nom entreprise",
			"labels.address":        "Adresse",
			"labels.siret":          "N° SIRET",
			"labels.tva":            "N° TVA",
			"labels.legal":          "Autres mentions",
			"labels.primaryColor":   "Principale",
			"labels.secondaryColor": "Textes",
			"labels.titleColor":     "Nom Entreprise",
			"labels.logo":           "Logo",
			"labels.signature":      "Signature",
			"labels.layout":         "Disposition",
			"labels.font":           "Police",
			"labels.fontSize":       "Taille du texte",
			"labels.logoSize":       "Taille du logo",
			"labels.showWatermark":  "Filigrane 'PAYÉ'",
			"labels.save":           "Sauvegarder",
			"labels.view":           "Voir",
			"labels.send":           "Envoyer par email",
			"labels.sending":        "Envoi...",
			"labels.message":        "Message",
			"labels.background":     "Couleur de fond",
			"labels.textColor":      "Couleur du texte",
			"labels.textAlign":      "Position du texte",
			"labels.enabled":        "Afficher le bandeau",

			"table.order":  "Commande",
			"table.client": "Client",
			"table.date":   "Date",
			"table.total":  "Total",
			"table.action": "Actions",

			"table.item":      "Article",
			"table.qty":       "Qté",
			"table.unitPrice": "Prix unitaire",
			"table.lineTotal": "Total",
			"labels.subtotal": "Sous-total",
			"labels.shipping": "Livraison",
			"labels.tax":      "Taxes",
			"titles.summary":  "Récapitulatif",

			"msg.missingEmail":   "Aucun email client !",
			"msg.configureSmtp":  "Veuillez configurer votre Email Gmail dans l'onglet Personnalisation !",
			"msg.emailSent":      "Email envoyé !",
			"msg.sendFailed":     "Erreur d'envoi",
			"msg.orderNotFound":  "Commande introuvable.",
			"msg.upstreamFailed": "Impossible de contacter Shopify.",

			"required":       "Requis",
			"invalid_color":  "Couleur invalide",
			"invalid_choice": "Valeur non autorisée",
			"too_large":      "Fichier trop volumineux (3 Mo max)",
			"invalid_email":  "Email invalide",
			"out_of_range":   "Valeur hors limites",
		},
	},
	"en": {
		Code:       "en",
		Locale:     "en-US",
		DateLayout: "01/02/2006",
		Doc: DocLabels{
			Invoice:      "INVOICE",
			Date:         "Date",
			BilledTo:     "Billed to",
			Description:  "Description",
			Qty:          "Qty",
			Price:        "Price",
			Total:        "TOTAL",
			Paid:         "PAID",
			Signature:    "Signature",
			Status:       "Status",
			Guest:        "Guest customer",
			EmailSubject: "Your invoice for order",
			EmailHello:   "Hello",
			EmailBody:    "Thank you for your purchase! Please find attached your invoice in PDF format.",
			EmailKind:    "Best regards",
			EmailTeam:    "The team",
		},
		UI: map[string]string{
			"titles.dashboard": "Dashboard",
			"titles.welcome":   "Welcome",
			"titles.smtp":      "Gmail Connection (SMTP)",
			"titles.nextSteps": "Next Steps",
			"titles.settings":  "Customization",
			"titles.orders":    "My Orders",
			"titles.design":    "Style & Layout",
			"titles.identity":  "Identity & Legal",
			"titles.images":    "Images",
			"titles.colors":    "Sizes & Colors",
			"titles.preview":   "PREVIEW",
			"titles.config":    "Configuration",
			"titles.banner":    "Banner settings",
			"titles.invoice":   "Invoice",

			"text.welcomeSub":  "Configure technical settings.",
			"text.smtpSub":     "Required for email sending.",
			"text.step1":       "Customize logo.",
			"text.step2":       "Manage invoices.",
			"text.saveSuccess": "Saved!",
			"text.saveError":   "Error.",
			"text.noOrders":    "No orders yet.",
			"text.notFound":    "Order not found.",
			"text.smtpReady":   "Gmail connected",
			"text.smtpMissing": "Gmail not configured",

			"labels.uiLang":         "Interface Language",
			"labels.docLang":        "Document Language",
			"labels.gmailAddr":      "Gmail Address",
			"labels.gmailPass":      "App Password",
			"labels.saveConfig":     "Save Config",
			"labels.company":        "Company Name",
			"labels.address":        "Address",
			"labels.siret":          "Company ID",
			"labels.tva":            "VAT ID",
			"labels.legal":          "Legal Info",
			"labels.primaryColor":   "Primary",
			"labels.secondaryColor": "Texts",
			"labels.titleColor":     "Company Name",
			"labels.logo":           "Logo",
			"labels.signature":      "Signature",
			"labels.layout":         "Layout",
			"labels.font":           "Font",
			"labels.fontSize":       "Font size",
			"labels.logoSize":       "Logo size",
			"labels.showWatermark":  "Show 'PAID'",
			"labels.save":           "Save",
			"labels.view":           "View",
			"labels.send":           "Send Email",
			"labels.sending":        "Sending...",
			"labels.message":        "Message",
			"labels.background":     "Background color",
			"labels.textColor":      "Text color",
			"labels.textAlign":      "Text position",
			"labels.enabled":        "Show banner",

			"table.order":  "Order",
			"table.client": "Customer",
			"table.date":   "Date",
			"table.total":  "Total",
			"table.action": "Actions",

			"table.item":      "Item",
			"table.qty":       "Qty",
			"table.unitPrice": "Unit price",
			"table.lineTotal": "Total",
			"labels.subtotal": "Subtotal",
			"labels.shipping": "Shipping",
			"labels.tax":      "Taxes",
			"titles.summary":  "Summary",

			"msg.missingEmail":   "No customer email!",
			"msg.configureSmtp":  "Please configure your Gmail address in the Customization tab!",
			"msg.emailSent":      "Email sent!",
			"msg.sendFailed":     "Sending failed",
			"msg.orderNotFound":  "Order not found.",
			"msg.upstreamFailed": "Could not reach Shopify.",

			"required":       "Required",
			"invalid_color":  "Invalid color",
			"invalid_choice": "Value not allowed",
			"too_large":      "File too large (3 MB max)",
			"invalid_email":  "Invalid email",
			"out_of_range":   "Out of range",
		},
	},
	"es": {
		Code:       "es",
		Locale:     "es-ES",
		DateLayout: "02/01/2006",
		Doc: DocLabels{
			Invoice:      "FACTURA",
			Date:         "Fecha",
			BilledTo:     "Facturado a",
			Description:  "Descripción",
			Qty:          "Cant.",
			Price:        "Precio",
			Total:        "TOTAL",
			Paid:         "PAGADO",
			Signature:    "Firma",
			Status:       "Estado",
			Guest:        "Cliente invitado",
			EmailSubject: "Su factura del pedido",
			EmailHello:   "Hola",
			EmailBody:    "¡Gracias por su compra! Adjunto encontrará su factura en formato PDF.",
			EmailKind:    "Atentamente",
			EmailTeam:    "El equipo",
		},
	},
	"de": {
		Code:       "de",
		Locale:     "de-DE",
		DateLayout: "02.01.2006",
		Doc: DocLabels{
			Invoice:      "RECHNUNG",
			Date:         "Datum",
			BilledTo:     "Rechnungsadresse",
			Description:  "Beschreibung",
			Qty:          "Menge",
			Price:        "Preis",
			Total:        "GESAMT",
			Paid:         "BEZAHLT",
			Signature:    "Unterschrift",
			Status:       "Status",
			Guest:        "Gastkunde",
			EmailSubject: "Ihre Rechnung für Bestellung",
			EmailHello:   "Hallo",
			EmailBody:    "Vielen Dank für Ihren Einkauf! Anbei finden Sie Ihre Rechnung als PDF.",
			EmailKind:    "Mit freundlichen Grüßen",
			EmailTeam:    "Ihr Team",
		},
	},
	"it": {
		Code:       "it",
		Locale:     "it-IT",
		DateLayout: "02/01/2006",
		Doc: DocLabels{
			Invoice:      "FATTURA",
			Date:         "Data",
			BilledTo:     "Fatturato a",
			Description:  "Descrizione",
			Qty:          "Qta",
			Price:        "Prezzo",
			Total:        "TOTALE",
			Paid:         "PAGATO",
			Signature:    "Firma",
			Status:       "Stato",
			Guest:        "Cliente ospite",
			EmailSubject: "La tua fattura per l'ordine",
			EmailHello:   "Ciao",
			EmailBody:    "Grazie per il tuo acquisto! In allegato trovi la tua fattura in formato PDF.",
			EmailKind:    "Cordiali saluti",
			EmailTeam:    "Il team",
		},
	},
}

// Supported returns the language codes that have a bundle, sorted.
func Supported() []string {
	codes := make([]string, 0, len(bundles))
	for c := range bundles {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// IsSupported reports whether code (after normalisation) has its own bundle.
func IsSupported(code string) bool {
	_, ok := bundles[normalize(code)]
	return ok
}

// ResolveBundle returns the bundle for code. Unknown or empty codes resolve to
// the fr bundle, and UI keys a language does not define are taken from fr, so
// every label of the returned bundle is populated.
func ResolveBundle(code string) Bundle {
	def := bundles[DefaultLang]
	b, ok := bundles[normalize(code)]
	if !ok {
		return def
	}
	ui := make(map[string]string, len(def.UI))
	for k, v := range def.UI {
		ui[k] = v
	}
	for k, v := range b.UI {
		if v != "" {
			ui[k] = v
		}
	}
	b.UI = ui
	return b
}

// T translates a UI code for lang, falling back to fr and then to the code.
func T(lang, code string) string {
	return ResolveBundle(lang).UIText(code)
}

// DetectLanguage picks the first supported language of an Accept-Language header.
func DetectLanguage(acceptLanguage string) string {
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" {
			continue
		}
		if c := normalize(tag); IsSupported(c) {
			return c
		}
	}
	return DefaultLang
}

func normalize(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(code, "-_"); i > 0 {
		code = code[:i]
	}
	return code
}

type langKey struct{}

// WithLang stores the interface language in ctx.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

// LangFromContext returns the interface language stored in ctx, or fr.
func LangFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(langKey{}).(string); ok && v != "" {
		return v
	}
	return DefaultLang
}
