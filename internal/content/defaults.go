package content

// Compiled-in defaults. A brand-new deployment (and a reset) serves this
// data until the admin edits it or the published snapshot replaces it.
// Returned as fresh values so callers can never alias the defaults.

func defaultSiteSettings() SiteSettings {
	return SiteSettings{
		InstituteName:    "मोहित दहिया",
		InstituteSubName: "क्लासेज (Kuchaman)",

		HeroHeadline:    "सरकारी नौकरी और मर्चेंट नेवी का सपना करें साकार",
		HeroSubHeadline: "कुचामन सिटी का एकमात्र संस्थान जहाँ मिलता है मर्चेंट नेवी और सरकारी परीक्षाओं (SSC, Railways, CET) के लिए व्यक्तिगत मार्गदर्शन।",
		HeroImageURL:    "https://images.unsplash.com/photo-1523240795612-9a054b0db644?auto=format&fit=crop&w=1000&q=80",

		AboutSectionTitle:    "सिर्फ एक कोचिंग नहीं, सफलता का विश्वास",
		AboutSectionSubtitle: "हमारे बारे में",
		AboutDirectorName:    "मोहित दहिया",
		AboutDirectorImage:   "https://images.unsplash.com/photo-1544717305-2782549b5136?auto=format&fit=crop&w=800&q=80",
		AboutText:            "कुचामन के प्रेरणा टॉवर में स्थित, मोहित दहिया क्लासेज की स्थापना एक स्पष्ट उद्देश्य के साथ की गई है: छात्रों को भीड़ का हिस्सा बनाने के बजाय उन्हें व्यक्तिगत मार्गदर्शन देना।",

		CourseSectionTitle:    "अपने सपनों को दें नई उड़ान",
		CourseSectionSubtitle: "हमारे प्रमुख कोर्स",

		FacultySectionTitle:    "अनुभवी मार्गदर्शन",
		FacultySectionSubtitle: "कुचामन के सर्वश्रेष्ठ शिक्षकों का अनुभव और निदेशक का व्यक्तिगत साथ।",

		GallerySectionTitle:    "संस्थान की झलक",
		GallerySectionSubtitle: "गैलरी",

		SelectionsSectionTitle:    "हमारे चमकते सितारे",
		SelectionsSectionSubtitle: "कड़ी मेहनत और सही मार्गदर्शन का परिणाम।",

		Address: "प्रेरणा टॉवर, जैन मंदिर के सामने, चुंगी नाका, डीडवाना रोड, कुचामन सिटी, नागौर, राजस्थान – 341508",
		MapURL:  "https://maps.google.com/maps?q=Prerna%20Tower%2C%20Didwana%20Road%2C%20Kuchaman%20City&t=&z=16&ie=UTF8&iwloc=&output=embed",
		Phone:   "6376100570 / 7597416905",
		Email:   "mohitkws@gmail.com",

		InstagramURL: "https://www.instagram.com/mohitdahiyaclasses",
		YouTubeURL:   "https://youtube.com/@mohitdahiyaclasses",
	}
}

func defaultAISettings() AISettings {
	return AISettings{
		SystemInstruction: "आप \"द्रोणा\" हैं, कुचामन सिटी में स्थित \"मोहित दहिया क्लासेज\" के शैक्षणिक परामर्शदाता। टोन: विनम्र, उत्साहजनक और हिंदी/हिंग्लिश में। उत्तर 150 शब्दों से कम रखें। फीस फिक्स न बताएं, विजिट करने को कहें।",
		WelcomeMessage:    "नमस्ते! मैं द्रोणा हूँ। मर्चेंट नेवी, SSC, रेलवे या किसी भी कोर्स के बारे में पूछिए।",
		FallbackMessage:   "नमस्ते! मैं अभी सर्वर से कनेक्ट नहीं हो पा रहा हूँ। आप मर्चेंट नेवी, SSC, फीस या हमारे पते के बारे में पूछ सकते हैं। या सीधे कॉल करें: 6376100570",
	}
}

func defaultCourses() []Course {
	return []Course{
		{
			ID:          "merchant-navy",
			Title:       "मर्चेंट नेवी (Merchant Navy)",
			Description: "IMU-CET और कंपनी स्पॉन्सरशिप परीक्षा की विशेष तैयारी। इसमें फिजिक्स, मैथ्स, इंग्लिश और एप्टीट्यूड शामिल हैं।",
			Icon:        "anchor",
			Duration:    "4-6 महीने",
			Target:      "12वीं पास (PCM)",
			Features: []string{
				"IMU-CET रैंक बूस्टर प्रोग्राम",
				"कंपनी स्पॉन्सरशिप इंटरव्यू की तैयारी",
				"साइकोमेट्रिक टेस्ट गाइडेंस",
			},
			Subjects: []string{
				"Physics (Class 11 & 12 Level)",
				"Mathematics (Technical)",
				"English (Grammar & Communication)",
				"General Aptitude & Reasoning",
			},
			JobRoles: []string{
				"Deck Cadet",
				"Engine Cadet",
				"Trainee Marine Engineer (TME)",
				"General Purpose Rating (GP Rating)",
			},
			AfterCompletion: []string{
				"मर्चेंट जहाजों पर डेक कैडेट या इंजन कैडेट के रूप में जॉइनिंग।",
				"18 महीने की सी-सर्विस के बाद थर्ड ऑफिसर/इंजीनियर बनने का मौका।",
			},
		},
		{
			ID:          "ssc",
			Title:       "एसएससी (SSC GD/CHSL/CGL)",
			Description: "SSC की सभी प्रमुख परीक्षाओं के लिए नियमित बैच, मॉक टेस्ट और फिजिकल गाइडेंस।",
			Icon:        "shield",
			Duration:    "6-12 महीने",
			Target:      "10वीं/12वीं/स्नातक",
			Features:    []string{"रोजाना मॉक टेस्ट", "गणित और रीजनिंग पर विशेष फोकस"},
			Subjects:    []string{"Mathematics", "Reasoning", "General Knowledge", "English"},
			JobRoles:    []string{"Constable (GD)", "LDC/DEO", "Inspector"},
			AfterCompletion: []string{
				"केंद्रीय सुरक्षा बलों और सरकारी विभागों में नियुक्ति।",
			},
		},
		{
			ID:          "railways",
			Title:       "रेलवे (Railways - NTPC/ALP)",
			Description: "रेलवे की तकनीकी और गैर-तकनीकी परीक्षाओं की सम्पूर्ण तैयारी।",
			Icon:        "train",
			Duration:    "6-12 महीने",
			Target:      "10वीं/ITI/स्नातक",
			Features:    []string{"साइंस और मैथ्स पर बेहतरीन फोकस", "पिछले वर्षों के पेपर का अभ्यास"},
			Subjects:    []string{"Mathematics", "General Science", "Reasoning", "Current Affairs"},
			JobRoles:    []string{"NTPC Graduate Posts", "Assistant Loco Pilot", "Group D"},
			AfterCompletion: []string{
				"भारतीय रेलवे के विभिन्न जोन में नियुक्ति।",
			},
		},
	}
}

func defaultStudents() []StudentResult {
	return []StudentResult{
		{
			ID:       "1",
			Name:     "राहुल वर्मा",
			Exam:     "Merchant Navy",
			Rank:     "Sponsorship Secured",
			ImageURL: "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?auto=format&fit=crop&w=500&q=80",
			Badge:    "Maersk Line",
			Category: CategoryMerchantNavy,
			Year:     "2024",
			Story:    "शुरुआत में मुझे मैथ्स से डर लगता था, लेकिन मोहित सर ने बेसिक्स पर जो काम किया, उससे मेरा कॉन्फिडेंस बढ़ा।",
		},
		{
			ID:       "2",
			Name:     "प्रिया शेखावत",
			Exam:     "SSC GD",
			Rank:     "Selected",
			ImageURL: "https://images.unsplash.com/photo-1544717305-2782549b5136?auto=format&fit=crop&w=500&q=80",
			Badge:    "BSF",
			Category: CategoryDefence,
			Year:     "2023",
			Story:    "रोजाना मॉक टेस्ट और फिजिकल गाइडेंस ने मुझे BSF तक पहुँचाया।",
		},
		{
			ID:       "3",
			Name:     "अमित चौधरी",
			Exam:     "Rajasthan Police",
			Rank:     "Constable",
			ImageURL: "https://images.unsplash.com/photo-1500648767791-00dcc994a43e?auto=format&fit=crop&w=500&q=80",
			Badge:    "Jaipur Comm.",
			Category: CategoryCivil,
			Year:     "2023",
			Story:    "यहाँ की फैकल्टी ने ट्रिक्स के साथ जो GK पढ़ाया, वो एग्जाम हॉल में बहुत काम आया।",
		},
	}
}

func defaultFaculty() []FacultyMember {
	return []FacultyMember{
		{
			ID:          "1",
			Name:        "मोहित दहिया",
			Subject:     "Physics & Mathematics",
			Experience:  "Director & Mentor",
			ImageURL:    "https://images.unsplash.com/photo-1544717305-2782549b5136?auto=format&fit=crop&w=800&q=80",
			Description: "तकनीकी परीक्षाओं के लिए फिजिक्स और गणित के विशेषज्ञ। मर्चेंट नेवी के छात्रों के लिए विशेष रणनीति।",
		},
		{
			ID:          "2",
			Name:        "Visiting Faculty",
			Subject:     "GK & Current Affairs",
			Experience:  "Expert Panel",
			ImageURL:    "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?auto=format&fit=crop&w=500&q=80",
			Description: "राजस्थान और भारत के सामान्य ज्ञान पर विशेषज्ञ पकड़।",
		},
	}
}

func defaultGallery() []GalleryImage {
	return []GalleryImage{
		{
			ID:       "1",
			URL:      "https://images.unsplash.com/photo-1523050854058-8df90110c9f1?auto=format&fit=crop&w=800&q=80",
			Title:    "आधुनिक कक्षाएँ",
			Subtitle: "स्मार्ट क्लासरूम सुविधा",
		},
		{
			ID:       "2",
			URL:      "https://images.unsplash.com/photo-1497633762265-9d179a990aa6?auto=format&fit=crop&w=800&q=80",
			Title:    "शांत लाइब्रेरी",
			Subtitle: "एकाग्रता के लिए उत्तम स्थान",
		},
		{
			ID:       "3",
			URL:      "https://images.unsplash.com/photo-1577896334506-c71164e05079?auto=format&fit=crop&w=800&q=80",
			Title:    "ग्रुप स्टडी",
			Subtitle: "साथ मिलकर सीखने का माहौल",
		},
	}
}

func defaultVideos() []Video {
	return []Video{
		{
			ID:          "1",
			Title:       "Merchant Navy Career Guide",
			VideoID:     "b0q2Zt5sKrs",
			Category:    VideoMotivation,
			Description: "Complete details about Merchant Navy career path and opportunities.",
		},
		{
			ID:          "2",
			Title:       "Physics - Laws of Motion",
			VideoID:     "kKKM8Y-u7ds",
			Category:    VideoPhysics,
			Description: "Important concepts for technical exams.",
		},
	}
}
