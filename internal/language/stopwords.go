package language

// Function-word lists for the shipped capabilities. These follow the usual
// corpus-linguistics sets; anything domain-specific belongs in a downstream
// stage, not here.

var englishStopwords = []string{
	"a", "about", "above", "after", "again", "against", "all", "am", "an",
	"and", "any", "are", "aren", "as", "at", "be", "because", "been",
	"before", "being", "below", "between", "both", "but", "by", "can",
	"cannot", "could", "couldn", "did", "didn", "do", "does", "doesn",
	"doing", "don", "down", "during", "each", "few", "for", "from",
	"further", "had", "hadn", "has", "hasn", "have", "haven", "having",
	"he", "her", "here", "hers", "herself", "him", "himself", "his", "how",
	"i", "if", "in", "into", "is", "isn", "it", "its", "itself", "just",
	"me", "more", "most", "my", "myself", "no", "nor", "not", "now", "of",
	"off", "on", "once", "only", "or", "other", "our", "ours", "ourselves",
	"out", "over", "own", "same", "she", "should", "shouldn", "so", "some",
	"such", "than", "that", "the", "their", "theirs", "them", "themselves",
	"then", "there", "these", "they", "this", "those", "through", "to",
	"too", "under", "until", "up", "very", "was", "wasn", "we", "were",
	"weren", "what", "when", "where", "which", "while", "who", "whom",
	"why", "will", "with", "won", "would", "wouldn", "you", "your",
	"yours", "yourself", "yourselves",
}

var frenchStopwords = []string{
	"a", "ai", "aie", "aient", "aies", "ait", "as", "au", "aura", "aurai",
	"auraient", "aurais", "aurait", "auras", "aurez", "auriez", "aurions",
	"aurons", "auront", "aux", "avaient", "avais", "avait", "avec", "avez",
	"aviez", "avions", "avons", "ayant", "ayez", "ayons", "c", "ce",
	"ceci", "cela", "ces", "cet", "cette", "d", "dans", "de", "des", "du",
	"elle", "elles", "en", "es", "est", "et", "eu", "eue", "eues", "eurent",
	"eus", "eut", "eux", "furent", "fus", "fut", "il", "ils", "j", "je",
	"l", "la", "le", "les", "leur", "leurs", "lui", "m", "ma", "mais",
	"me", "mes", "moi", "mon", "n", "ne", "nos", "notre", "nous", "on",
	"ont", "ou", "par", "pas", "pour", "qu", "que", "qui", "s", "sa",
	"sans", "se", "sera", "serai", "seraient", "serais", "serait", "seras",
	"serez", "seriez", "serions", "serons", "seront", "ses", "soient",
	"sois", "soit", "sommes", "son", "sont", "soyez", "soyons", "suis",
	"sur", "t", "ta", "te", "tes", "toi", "ton", "tu", "un", "une", "vos",
	"votre", "vous", "y", "étaient", "étais", "était", "étant", "étiez",
	"étions", "été", "êtes", "être",
}

var arabicStopwords = []string{
	"في", "من", "على", "و", "فى", "يا", "عن", "مع", "هذا", "هذه", "ذلك",
	"تلك", "هو", "هي", "هم", "هن", "انا", "أنا", "انت", "أنت", "نحن",
	"كان", "كانت", "يكون", "تكون", "ما", "لا", "لم", "لن", "ان", "أن",
	"إن", "اذا", "إذا", "كل", "بعض", "غير", "بين", "حتى", "اذ", "إذ",
	"قد", "لقد", "ثم", "أو", "او", "بل", "لكن", "ولكن", "له", "لها",
	"لهم", "به", "بها", "بهم", "فيه", "فيها", "منه", "منها", "عليه",
	"عليها", "اليوم", "أي", "اي", "كما", "لما", "عند", "عندما", "منذ",
	"وهو", "وهي", "هناك", "هنا", "الذي", "التي", "الذين", "اللذين",
	"ليس", "ليست", "بعد", "قبل", "حول", "دون", "بدون", "الى", "إلى",
}
