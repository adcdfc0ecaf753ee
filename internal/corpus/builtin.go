package corpus

import (
	"fmt"
	"strings"
)

// saveeLabel handles the uneven label codes in SAVEE names such as
// "DC_a01" and "DC_sa01": one letter when a digit follows, two otherwise.
func saveeLabel(name string) string {
	if len(name) < 5 {
		return ""
	}
	if name[4] >= '0' && name[4] <= '9' {
		return name[3:4]
	}
	return name[3:5]
}

// portugueseSpeaker extracts the single speaker letter preceding the first
// underscore, e.g. "14pA_angry2" yields "A".
func portugueseSpeaker(name string) string {
	i := strings.Index(name, "_")
	if i < 1 {
		return ""
	}
	return name[i-1 : i]
}

// numbered builds a roster of prefix plus integers lo through hi counted in
// step, zero padded to width (width 0 disables padding), skipping any
// excluded values.
func numbered(prefix string, width, lo, hi, step int, skip ...int) []string {
	var out []string
	for i := lo; i <= hi; i += step {
		excluded := false
		for _, s := range skip {
			if i == s {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}
		out = append(out, fmt.Sprintf("%s%0*d", prefix, width, i))
	}
	return out
}

var builtins = []Meta{
	{
		ID: "cafe",
		Labels: []LabelPair{
			{"C", "anger"}, {"D", "disgust"}, {"J", "happiness"},
			{"N", "neutral"}, {"P", "fear"}, {"S", "surprise"},
			{"T", "sadness"},
		},
		MaleSpeakers:   numbered("", 2, 1, 11, 2),
		FemaleSpeakers: numbered("", 2, 2, 12, 2),
		LabelRule:      CharAt(3),
		SpeakerRule:    Prefix(2),
	},
	{
		ID: "crema-d",
		Labels: []LabelPair{
			{"A", "anger"}, {"D", "disgust"}, {"F", "fear"},
			{"H", "happy"}, {"S", "sad"}, {"N", "neutral"},
		},
		Speakers: []string{
			"1042", "1070", "1030", "1087", "1061", "1086", "1026", "1017",
			"1039", "1082", "1032", "1015", "1062", "1012", "1046", "1010",
			"1014", "1064", "1080", "1023", "1056", "1066", "1035", "1074",
			"1068", "1027", "1043", "1065", "1076", "1060", "1019", "1011",
			"1075", "1008", "1006", "1025", "1053", "1058", "1085", "1069",
			"1024", "1084", "1033", "1054", "1090", "1013", "1038", "1072",
			"1036", "1088", "1071", "1005", "1057", "1029", "1020", "1073",
			"1050", "1007", "1031", "1003", "1002", "1079", "1040", "1047",
			"1077", "1078", "1049", "1051", "1041", "1052", "1083", "1016",
			"1034", "1009", "1055", "1048", "1018", "1091", "1045", "1022",
			"1004", "1089", "1067", "1059", "1063", "1001", "1021", "1028",
			"1044", "1037", "1081",
		},
		SpeakerRule: Prefix(4),
	},
	{
		ID: "demos",
		Labels: []LabelPair{
			{"rab", "anger"}, {"tri", "sadness"}, {"gio", "happiness"},
			{"pau", "fear"}, {"dis", "disgust"}, {"col", "guilt"},
			{"sor", "surprise"},
		},
		Arousal: &Polarity{
			Negative: []string{"disgust", "neutral", "sadness", "guilt"},
			Positive: []string{"anger", "fear", "happiness", "surprise"},
		},
		Valence: &Polarity{
			Negative: []string{"anger", "guilt", "disgust", "fear", "sadness"},
			Positive: []string{"happiness", "neutral", "surprise"},
		},
		MaleSpeakers: []string{
			"02", "03", "04", "05", "08", "09", "10", "11", "12", "14", "15",
			"16", "18", "19", "23", "24", "25", "26", "27", "28", "30", "33",
			"34", "39", "41", "50", "51", "52", "53", "58", "59", "63", "64",
			"65", "66", "67", "68", "69",
		},
		FemaleSpeakers: []string{
			"01", "17", "21", "22", "29", "31", "36", "37", "38", "40", "43",
			"45", "46", "47", "49", "54", "55", "56", "57", "60", "61",
		},
		LabelRule:   SliceFromEnd(6, 3),
		SpeakerRule: SliceFromEnd(9, 7),
	},
	{
		ID: "emodb",
		Labels: []LabelPair{
			{"W", "anger"}, {"L", "boredom"}, {"E", "disgust"},
			{"A", "fear"}, {"F", "happiness"}, {"T", "sadness"},
			{"N", "neutral"},
		},
		Arousal: &Polarity{
			Negative: []string{"boredom", "disgust", "neutral", "sadness"},
			Positive: []string{"anger", "fear", "happiness"},
		},
		Valence: &Polarity{
			Negative: []string{"anger", "boredom", "disgust", "fear", "sadness"},
			Positive: []string{"happiness", "neutral"},
		},
		MaleSpeakers:   []string{"03", "10", "11", "12", "15"},
		FemaleSpeakers: []string{"08", "09", "13", "14", "16"},
		LabelRule:      CharAt(5),
		SpeakerRule:    Prefix(2),
	},
	{
		ID: "emofilm",
		Labels: []LabelPair{
			{"ans", "fear"}, {"dis", "disgust"}, {"gio", "happiness"},
			{"rab", "anger"}, {"tri", "sadness"},
		},
		Speakers:    []string{"en", "es", "it"},
		LabelRule:   Slice(2, 5),
		SpeakerRule: Suffix(2),
	},
	{
		ID: "enterface",
		Labels: []LabelPair{
			{"an", "anger"}, {"di", "disgust"}, {"fe", "fear"},
			{"ha", "happiness"}, {"sa", "sadness"}, {"su", "surprise"},
		},
		Arousal: &Polarity{
			Negative: []string{"disgust", "sadness"},
			Positive: []string{"anger", "fear", "happiness", "surprise"},
		},
		Valence: &Polarity{
			Negative: []string{"anger", "disgust", "fear", "sadness"},
			Positive: []string{"happiness", "surprise"},
		},
		Speakers:    numbered("s", 0, 1, 44, 1, 6),
		LabelRule:   SliceFromEnd(4, 2),
		SpeakerRule: BeforeFirst("_"),
	},
	{
		ID: "iemocap",
		Labels: []LabelPair{
			{"ang", "anger"}, {"hap", "happiness"}, {"sad", "sadness"},
			{"neu", "neutral"},
		},
		MaleSpeakers:   []string{"01M", "02M", "03M", "04M", "05M"},
		FemaleSpeakers: []string{"01F", "02F", "03F", "04F", "05F"},
		LabelRule:      Suffix(3),
		SpeakerRule:    Slice(3, 6),
		// Sessions pair one male and one female speaker.
		SpeakerGroups: []int{0, 1, 2, 3, 4, 0, 1, 2, 3, 4},
	},
	{
		ID: "jl",
		Labels: []LabelPair{
			{"angry", "angry"}, {"sad", "sad"}, {"neutral", "neutral"},
			{"happy", "happy"}, {"excited", "excited"},
		},
		MaleSpeakers:   []string{"male1", "male2"},
		FemaleSpeakers: []string{"female1", "female2"},
		LabelRule:      Match(`^\w+\d_([a-z]+)_.*$`, 1),
		SpeakerRule:    BeforeFirst("_"),
	},
	{
		ID: "msp-improv",
		Labels: []LabelPair{
			{"A", "angry"}, {"H", "happy"}, {"S", "sad"}, {"N", "neutral"},
		},
		MaleSpeakers:   []string{"M01", "M02", "M03", "M04", "M05", "M06"},
		FemaleSpeakers: []string{"F01", "F02", "F03", "F04", "F05", "F06"},
		LabelRule:      CharAt(-1),
		SpeakerRule:    Slice(5, 8),
		SpeakerGroups:  []int{0, 1, 2, 3, 4, 5, 0, 1, 2, 3, 4, 5},
	},
	{
		ID: "portuguese",
		Labels: []LabelPair{
			{"angry", "angry"}, {"disgust", "disgust"}, {"fear", "fear"},
			{"happy", "happy"}, {"sad", "sad"}, {"neutral", "neutral"},
			{"surprise", "surprise"},
		},
		Speakers:    []string{"A", "B"},
		LabelRule:   Match(`^\d+[sp][AB]_([a-z]+)\d+$`, 1),
		SpeakerRule: portugueseSpeaker,
	},
	{
		ID: "ravdess",
		Labels: []LabelPair{
			{"01", "neutral"}, {"02", "calm"}, {"03", "happy"},
			{"04", "sad"}, {"05", "angry"}, {"06", "fearful"},
			{"07", "disgust"}, {"08", "surprised"},
		},
		MaleSpeakers:   numbered("", 2, 1, 23, 2),
		FemaleSpeakers: numbered("", 2, 2, 24, 2),
		LabelRule:      Slice(6, 8),
		SpeakerRule:    Suffix(2),
	},
	{
		ID: "savee",
		Labels: []LabelPair{
			{"a", "anger"}, {"d", "disgust"}, {"f", "fear"},
			{"h", "happiness"}, {"n", "neutral"}, {"sa", "sadness"},
			{"su", "suprise"},
		},
		Arousal: &Polarity{
			Negative: []string{"disgust", "neutral", "sadness"},
			Positive: []string{"anger", "fear", "happiness", "surprise"},
		},
		Valence: &Polarity{
			Negative: []string{"anger", "disgust", "fear", "sadness"},
			Positive: []string{"happiness", "neutral", "surprise"},
		},
		Speakers:    []string{"DC", "JE", "JK", "KL"},
		LabelRule:   saveeLabel,
		SpeakerRule: Prefix(2),
	},
	{
		// Dimensional corpus: no categorical labels, regression
		// annotations only.
		ID:          "semaine",
		Speakers:    numbered("", 2, 1, 24, 1, 7, 8),
		SpeakerRule: Prefix(2),
	},
	{
		ID: "shemo",
		Labels: []LabelPair{
			{"A", "anger"}, {"H", "happiness"}, {"N", "neutral"},
			{"S", "sadness"}, {"W", "surprise"},
		},
		MaleSpeakers:   numbered("M", 2, 1, 56, 1),
		FemaleSpeakers: numbered("F", 2, 1, 31, 1),
		LabelRule:      CharAt(3),
		SpeakerRule:    Prefix(3),
	},
	{
		ID: "smartkom",
		Labels: []LabelPair{
			{"Neutral", "neutral"}, {"Freude_Erfolg", "joy"},
			{"Uberlegen_Nachdenken", "pondering"},
			{"Ratlosigkeit", "helpless"}, {"Arger_Miserfolg", "anger"},
			{"Uberraschung_Verwunderung", "surprise"},
			{"Restklasse", "unknown"},
		},
		Speakers: []string{
			"AAA", "AAB", "AAC", "AAD", "AAE", "AAF", "AAG", "AAH", "AAI",
			"AAJ", "AAK", "AAL", "AAM", "AAN", "AAO", "AAP", "AAQ", "AAR",
			"AAS", "AAT", "AAU", "AAV", "AAW", "AAX", "AAY", "AAZ", "ABA",
			"ABB", "ABC", "ABD", "ABE", "ABF", "ABG", "ABH", "ABI", "ABJ",
			"ABK", "ABL", "ABM", "ABN", "ABO", "ABP", "ABQ", "ABR", "ABS",
			"AIS", "AIT", "AIU", "AIV", "AIW", "AIX", "AIY", "AIZ", "AJA",
			"AJB", "AJC", "AJD", "AJE", "AJF", "AJG", "AJH", "AJI", "AJJ",
			"AJK", "AJL", "AJM", "AJN", "AJO", "AJP", "AJQ", "AJR", "AJS",
			"AJT", "AJU", "AJV", "AJW", "AJX", "AJY", "AJZ", "AKA", "AKB",
			"AKC", "AKD", "AKE", "AKF", "AKG",
		},
		SpeakerRule: Slice(8, 11),
	},
	{
		ID: "tess",
		Labels: []LabelPair{
			{"angry", "angry"}, {"disgust", "disgust"}, {"fear", "fear"},
			{"happy", "happy"}, {"ps", "surprise"}, {"sad", "sad"},
			{"neutral", "neutral"},
		},
		Speakers:    []string{"OAF", "YAF"},
		LabelRule:   AfterLast("_"),
		SpeakerRule: Prefix(3),
	},
}
