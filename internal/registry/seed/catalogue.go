package seed

import "etatcivil/internal/registry/models"

// Row is one reference dimension. Parent is the code of the parent row for
// hierarchical kinds.
type Row struct {
	Code        string
	Label       string
	Description string
	Parent      string
}

// Catalogue is the reference data of one kind.
type Catalogue struct {
	Kind models.DimensionKind
	Rows []Row
}

// Reference lists the catalogues in load order: parents before children.
var Reference = []Catalogue{
	{Kind: models.KindRegion, Rows: regions},
	{Kind: models.KindDistrict, Rows: districts},
	{Kind: models.KindCommune, Rows: communes},
	{Kind: models.KindProfession, Rows: professions},
	{Kind: models.KindNationality, Rows: nationalities},
	{Kind: models.KindCause, Rows: causes},
}

var regions = []Row{
	{Code: "ANA", Label: "Analamanga"},
	{Code: "VAK", Label: "Vakinankaratra"},
	{Code: "ITO", Label: "Itasy"},
	{Code: "BON", Label: "Bongolava"},
	{Code: "MAT", Label: "Matsiatra Ambony"},
	{Code: "AMO", Label: "Amoron'i Mania"},
	{Code: "VAT", Label: "Vatovavy Fitovinany"},
	{Code: "IHO", Label: "Ihorombe"},
	{Code: "ATS", Label: "Atsimo-Atsinanana"},
	{Code: "ATN", Label: "Atsinanana"},
	{Code: "ANJ", Label: "Analanjirofo"},
	{Code: "ALA", Label: "Alaotra-Mangoro"},
	{Code: "BOE", Label: "Boeny"},
	{Code: "BET", Label: "Betsiboka"},
	{Code: "MEL", Label: "Melaky"},
	{Code: "SOF", Label: "Sofia"},
	{Code: "DIA", Label: "Diana"},
	{Code: "SAV", Label: "Sava"},
	{Code: "AND", Label: "Androy"},
	{Code: "ANO", Label: "Anosy"},
	{Code: "ATM", Label: "Atsimo-Andrefana"},
	{Code: "MEN", Label: "Menabe"},
}

var districts = []Row{
	{Code: "ANT", Label: "Antananarivo Renivohitra", Parent: "ANA"},
	{Code: "ANB", Label: "Antananarivo Atsimondrano", Parent: "ANA"},
	{Code: "ANA", Label: "Antananarivo Avaradrano", Parent: "ANA"},
	{Code: "ANZ", Label: "Anjozorobe", Parent: "ANA"},
	{Code: "AMB", Label: "Ambohidratrimo", Parent: "ANA"},
	{Code: "AND", Label: "Andramasina", Parent: "ANA"},
	{Code: "MAN", Label: "Manjakandriana", Parent: "ANA"},
	{Code: "ANS", Label: "Antsirabe I", Parent: "VAK"},
	{Code: "AN2", Label: "Antsirabe II", Parent: "VAK"},
	{Code: "BET", Label: "Betafo", Parent: "VAK"},
	{Code: "FAR", Label: "Faratsiho", Parent: "VAK"},
	{Code: "AMT", Label: "Ambatolampy", Parent: "VAK"},
	{Code: "ANF", Label: "Antanifotsy", Parent: "VAK"},
}

var communes = []Row{
	{Code: "ANK", Label: "Antananarivo", Parent: "ANT"},
	{Code: "AVT", Label: "Antananarivo Atsimondrano", Parent: "ANB"},
	{Code: "TAL", Label: "Talata Volonondry", Parent: "ANB"},
	{Code: "AMB", Label: "Ambohidratrimo", Parent: "ANB"},
}

var professions = []Row{
	{Code: "AGR", Label: "Agriculteur"},
	{Code: "ENS", Label: "Enseignant"},
	{Code: "COM", Label: "Commerçant"},
	{Code: "FON", Label: "Fonctionnaire"},
	{Code: "MED", Label: "Médecin"},
	{Code: "INF", Label: "Infirmier"},
	{Code: "CHA", Label: "Chauffeur"},
	{Code: "ART", Label: "Artisan"},
	{Code: "OUV", Label: "Ouvrier"},
	{Code: "ING", Label: "Ingénieur"},
	{Code: "SAN", Label: "Sans profession"},
	{Code: "ETU", Label: "Étudiant"},
	{Code: "RET", Label: "Retraité"},
	{Code: "FAF", Label: "Femme au foyer"},
	{Code: "CHE", Label: "Chef d'entreprise"},
	{Code: "JUR", Label: "Juriste/Avocat"},
	{Code: "ARC", Label: "Architecte"},
	{Code: "CUI", Label: "Cuisinier"},
	{Code: "COI", Label: "Coiffeur"},
	{Code: "MEC", Label: "Mécanicien"},
	{Code: "ELE", Label: "Électricien"},
	{Code: "MAÇ", Label: "Maçon"},
	{Code: "MEN", Label: "Menuisier"},
	{Code: "COU", Label: "Couturier"},
	{Code: "PHA", Label: "Pharmacien"},
}

var nationalities = []Row{
	{Code: "MG", Label: "Malgache"},
	{Code: "FR", Label: "Française"},
	{Code: "CN", Label: "Chinoise"},
	{Code: "IN", Label: "Indienne"},
	{Code: "KM", Label: "Comorienne"},
	{Code: "MU", Label: "Mauricienne"},
	{Code: "RE", Label: "Réunionnaise"},
	{Code: "US", Label: "Américaine"},
	{Code: "GB", Label: "Britannique"},
	{Code: "DE", Label: "Allemande"},
	{Code: "IT", Label: "Italienne"},
	{Code: "ES", Label: "Espagnole"},
	{Code: "PT", Label: "Portugaise"},
	{Code: "BE", Label: "Belge"},
	{Code: "CH", Label: "Suisse"},
	{Code: "CA", Label: "Canadienne"},
	{Code: "JP", Label: "Japonaise"},
	{Code: "KR", Label: "Coréenne"},
	{Code: "PK", Label: "Pakistanaise"},
	{Code: "LK", Label: "Sri-lankaise"},
}

var causes = []Row{
	{Code: "C001", Label: "Maladie cardiovasculaire", Description: "Infarctus du myocarde, AVC, insuffisance cardiaque"},
	{Code: "C002", Label: "Cancer", Description: "Tous types de cancer (poumon, sein, foie, etc.)"},
	{Code: "C003", Label: "Maladie respiratoire", Description: "Pneumonie, tuberculose, asthme sévère"},
	{Code: "C004", Label: "Accident de la route", Description: "Collision, renversement, piéton"},
	{Code: "C005", Label: "Paludisme", Description: "Malaria grave"},
	{Code: "C006", Label: "Diabète", Description: "Complications du diabète sucré"},
	{Code: "C007", Label: "Vieillesse", Description: "Mort naturelle liée à l'âge avancé"},
	{Code: "C008", Label: "Infection", Description: "Septicémie, méningite, etc."},
	{Code: "C009", Label: "Complication d'accouchement", Description: "Hémorragie, éclampsie, infection puerpérale"},
	{Code: "C010", Label: "Noyade", Description: "Accident aquatique"},
	{Code: "C011", Label: "Suicide", Description: "Mort volontaire"},
	{Code: "C012", Label: "Homicide", Description: "Meurtre, assassinat"},
	{Code: "C013", Label: "Diarrhée", Description: "Diarrhée sévère, déshydratation"},
	{Code: "C014", Label: "Malnutrition", Description: "Sous-nutrition sévère"},
	{Code: "C015", Label: "VIH/SIDA", Description: "Syndrome d'immunodéficience acquise"},
	{Code: "C016", Label: "Cirrhose du foie", Description: "Maladie hépatique chronique"},
	{Code: "C017", Label: "Insuffisance rénale", Description: "Maladie rénale chronique"},
	{Code: "C018", Label: "Accident domestique", Description: "Chute, brûlure, électrocution"},
	{Code: "C019", Label: "Incendie", Description: "Brûlure mortelle"},
	{Code: "C020", Label: "Empoisonnement", Description: "Intoxication alimentaire ou chimique"},
	{Code: "C099", Label: "Cause inconnue", Description: "Cause non déterminée ou non spécifiée"},
}
