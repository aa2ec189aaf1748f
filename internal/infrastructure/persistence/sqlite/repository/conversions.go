package repository

import (
	"qualrecon/internal/domain/register"
	"qualrecon/internal/infrastructure/persistence/sqlite/model"
)

func organisationFromModel(row model.Organisation) register.Organisation {
	return register.Organisation{
		ID:                row.ID,
		Ukprn:             row.Ukprn,
		RecognitionNumber: row.RecognitionNumber,
		NameOfqual:        row.NameOfqual,
		Acronym:           row.Acronym,
	}
}

func organisationToModel(org *register.Organisation) model.Organisation {
	return model.Organisation{
		ID:                org.ID,
		Ukprn:             org.Ukprn,
		RecognitionNumber: org.RecognitionNumber,
		NameOfqual:        org.NameOfqual,
		Acronym:           org.Acronym,
	}
}

func qualificationFromModel(row model.Qualification) register.Qualification {
	return register.Qualification{
		ID:                row.ID,
		Qan:               row.Qan,
		QualificationName: row.QualificationName,
	}
}

func qualificationToModel(qual *register.Qualification) model.Qualification {
	return model.Qualification{
		ID:                qual.ID,
		Qan:               qual.Qan,
		QualificationName: qual.QualificationName,
	}
}

func versionFromModel(row model.QualificationVersion) register.QualificationVersion {
	return register.QualificationVersion{
		ID:                   row.ID,
		Version:              row.Version,
		QualificationID:      row.QualificationID,
		OrganisationID:       row.OrganisationID,
		ProcessStatusID:      row.ProcessStatusID,
		LifecycleStageID:     row.LifecycleStageID,
		VersionFieldChangeID: row.VersionFieldChangeID,
		Snapshot:             snapshotFromVersionModel(row),
	}
}

func snapshotFromVersionModel(row model.QualificationVersion) register.Snapshot {
	return register.Snapshot{
		Status:                                row.Status,
		QualificationType:                     row.QualificationType,
		Ssa:                                   row.Ssa,
		Level:                                 row.Level,
		SubLevel:                              row.SubLevel,
		EqfLevel:                              row.EqfLevel,
		GradingType:                           row.GradingType,
		GradingScale:                          row.GradingScale,
		TotalCredits:                          row.TotalCredits,
		Tqt:                                   row.Tqt,
		Glh:                                   row.Glh,
		MinimumGlh:                            row.MinimumGlh,
		MaximumGlh:                            row.MaximumGlh,
		RegulationStartDate:                   row.RegulationStartDate,
		OperationalStartDate:                  row.OperationalStartDate,
		OperationalEndDate:                    row.OperationalEndDate,
		CertificationEndDate:                  row.CertificationEndDate,
		ReviewDate:                            row.ReviewDate,
		AppealDate:                            row.AppealDate,
		OfferedInEngland:                      row.OfferedInEngland,
		OfferedInNorthernIreland:              row.OfferedInNorthernIreland,
		OfferedInternationally:                row.OfferedInternationally,
		Specialism:                            row.Specialism,
		Pathways:                              row.Pathways,
		AssessmentMethods:                     row.AssessmentMethods,
		ApprovedForDelFundedProgramme:         row.ApprovedForDelFundedProgramme,
		LinkToSpecification:                   row.LinkToSpecification,
		ApprenticeshipStandardReferenceNumber: row.ApprenticeshipStandardReferenceNumber,
		ApprenticeshipStandardTitle:           row.ApprenticeshipStandardTitle,
		RegulatedByNorthernIreland:            row.RegulatedByNorthernIreland,
		NiDiscountCode:                        row.NiDiscountCode,
		GceSizeEquivalence:                    row.GceSizeEquivalence,
		GcseSizeEquivalence:                   row.GcseSizeEquivalence,
		EntitlementFrameworkDesign:            row.EntitlementFrameworkDesign,
		LastUpdatedDate:                       row.LastUpdatedDate,
		UiLastUpdatedDate:                     row.UiLastUpdatedDate,
		InsertedDate:                          row.InsertedDate,
	}
}

func applySnapshotToVersionModel(s register.Snapshot, row *model.QualificationVersion) {
	row.Status = s.Status
	row.QualificationType = s.QualificationType
	row.Ssa = s.Ssa
	row.Level = s.Level
	row.SubLevel = s.SubLevel
	row.EqfLevel = s.EqfLevel
	row.GradingType = s.GradingType
	row.GradingScale = s.GradingScale
	row.TotalCredits = s.TotalCredits
	row.Tqt = s.Tqt
	row.Glh = s.Glh
	row.MinimumGlh = s.MinimumGlh
	row.MaximumGlh = s.MaximumGlh
	row.RegulationStartDate = s.RegulationStartDate
	row.OperationalStartDate = s.OperationalStartDate
	row.OperationalEndDate = s.OperationalEndDate
	row.CertificationEndDate = s.CertificationEndDate
	row.ReviewDate = s.ReviewDate
	row.AppealDate = s.AppealDate
	row.OfferedInEngland = s.OfferedInEngland
	row.OfferedInNorthernIreland = s.OfferedInNorthernIreland
	row.OfferedInternationally = s.OfferedInternationally
	row.Specialism = s.Specialism
	row.Pathways = s.Pathways
	row.AssessmentMethods = s.AssessmentMethods
	row.ApprovedForDelFundedProgramme = s.ApprovedForDelFundedProgramme
	row.LinkToSpecification = s.LinkToSpecification
	row.ApprenticeshipStandardReferenceNumber = s.ApprenticeshipStandardReferenceNumber
	row.ApprenticeshipStandardTitle = s.ApprenticeshipStandardTitle
	row.RegulatedByNorthernIreland = s.RegulatedByNorthernIreland
	row.NiDiscountCode = s.NiDiscountCode
	row.GceSizeEquivalence = s.GceSizeEquivalence
	row.GcseSizeEquivalence = s.GcseSizeEquivalence
	row.EntitlementFrameworkDesign = s.EntitlementFrameworkDesign
	row.LastUpdatedDate = s.LastUpdatedDate
	row.UiLastUpdatedDate = s.UiLastUpdatedDate
	row.InsertedDate = s.InsertedDate
}

func stagedFromModel(row model.StagedQualification) register.StagedRecord {
	return register.StagedRecord{
		Qan:                           row.Qan,
		QualificationName:             row.QualificationName,
		Ukprn:                         row.Ukprn,
		OrganisationName:              row.OrganisationName,
		OrganisationAcronym:           row.OrganisationAcronym,
		OrganisationRecognitionNumber: row.OrganisationRecognitionNumber,
		Snapshot: register.Snapshot{
			Status:                                row.Status,
			QualificationType:                     row.QualificationType,
			Ssa:                                   row.Ssa,
			Level:                                 row.Level,
			SubLevel:                              row.SubLevel,
			EqfLevel:                              row.EqfLevel,
			GradingType:                           row.GradingType,
			GradingScale:                          row.GradingScale,
			TotalCredits:                          row.TotalCredits,
			Tqt:                                   row.Tqt,
			Glh:                                   row.Glh,
			MinimumGlh:                            row.MinimumGlh,
			MaximumGlh:                            row.MaximumGlh,
			RegulationStartDate:                   row.RegulationStartDate,
			OperationalStartDate:                  row.OperationalStartDate,
			OperationalEndDate:                    row.OperationalEndDate,
			CertificationEndDate:                  row.CertificationEndDate,
			ReviewDate:                            row.ReviewDate,
			AppealDate:                            row.AppealDate,
			OfferedInEngland:                      row.OfferedInEngland,
			OfferedInNorthernIreland:              row.OfferedInNorthernIreland,
			OfferedInternationally:                row.OfferedInternationally,
			Specialism:                            row.Specialism,
			Pathways:                              row.Pathways,
			AssessmentMethods:                     row.AssessmentMethods,
			ApprovedForDelFundedProgramme:         row.ApprovedForDelFundedProgramme,
			LinkToSpecification:                   row.LinkToSpecification,
			ApprenticeshipStandardReferenceNumber: row.ApprenticeshipStandardReferenceNumber,
			ApprenticeshipStandardTitle:           row.ApprenticeshipStandardTitle,
			RegulatedByNorthernIreland:            row.RegulatedByNorthernIreland,
			NiDiscountCode:                        row.NiDiscountCode,
			GceSizeEquivalence:                    row.GceSizeEquivalence,
			GcseSizeEquivalence:                   row.GcseSizeEquivalence,
			EntitlementFrameworkDesign:            row.EntitlementFrameworkDesign,
			LastUpdatedDate:                       row.LastUpdatedDate,
			UiLastUpdatedDate:                     row.UiLastUpdatedDate,
			InsertedDate:                          row.InsertedDate,
		},
	}
}

func stagedToModel(rec register.StagedRecord) model.StagedQualification {
	row := model.StagedQualification{
		Qan:                           rec.Qan,
		QualificationName:             rec.QualificationName,
		Ukprn:                         rec.Ukprn,
		OrganisationName:              rec.OrganisationName,
		OrganisationAcronym:           rec.OrganisationAcronym,
		OrganisationRecognitionNumber: rec.OrganisationRecognitionNumber,
	}
	s := rec.Snapshot
	row.Status = s.Status
	row.QualificationType = s.QualificationType
	row.Ssa = s.Ssa
	row.Level = s.Level
	row.SubLevel = s.SubLevel
	row.EqfLevel = s.EqfLevel
	row.GradingType = s.GradingType
	row.GradingScale = s.GradingScale
	row.TotalCredits = s.TotalCredits
	row.Tqt = s.Tqt
	row.Glh = s.Glh
	row.MinimumGlh = s.MinimumGlh
	row.MaximumGlh = s.MaximumGlh
	row.RegulationStartDate = s.RegulationStartDate
	row.OperationalStartDate = s.OperationalStartDate
	row.OperationalEndDate = s.OperationalEndDate
	row.CertificationEndDate = s.CertificationEndDate
	row.ReviewDate = s.ReviewDate
	row.AppealDate = s.AppealDate
	row.OfferedInEngland = s.OfferedInEngland
	row.OfferedInNorthernIreland = s.OfferedInNorthernIreland
	row.OfferedInternationally = s.OfferedInternationally
	row.Specialism = s.Specialism
	row.Pathways = s.Pathways
	row.AssessmentMethods = s.AssessmentMethods
	row.ApprovedForDelFundedProgramme = s.ApprovedForDelFundedProgramme
	row.LinkToSpecification = s.LinkToSpecification
	row.ApprenticeshipStandardReferenceNumber = s.ApprenticeshipStandardReferenceNumber
	row.ApprenticeshipStandardTitle = s.ApprenticeshipStandardTitle
	row.RegulatedByNorthernIreland = s.RegulatedByNorthernIreland
	row.NiDiscountCode = s.NiDiscountCode
	row.GceSizeEquivalence = s.GceSizeEquivalence
	row.GcseSizeEquivalence = s.GcseSizeEquivalence
	row.EntitlementFrameworkDesign = s.EntitlementFrameworkDesign
	row.LastUpdatedDate = s.LastUpdatedDate
	row.UiLastUpdatedDate = s.UiLastUpdatedDate
	row.InsertedDate = s.InsertedDate
	return row
}

func fundingFromModel(row model.QualificationFunding) register.Funding {
	return register.Funding{
		ID:                     row.ID,
		QualificationVersionID: row.QualificationVersionID,
		FundingOfferTypeID:     row.FundingOfferTypeID,
		StartDate:              row.StartDate,
		EndDate:                row.EndDate,
		Comments:               row.Comments,
	}
}

func offerFromModel(row model.ImportedFundingOffer) register.ImportedOffer {
	return register.ImportedOffer{
		ID:               row.ID,
		Qan:              row.Qan,
		Name:             row.Name,
		FundingAvailable: row.FundingAvailable,
		StartDate:        row.StartDate,
		EndDate:          row.EndDate,
	}
}

func offerToModel(offer register.ImportedOffer) model.ImportedFundingOffer {
	return model.ImportedFundingOffer{
		ID:               offer.ID,
		Qan:              offer.Qan,
		Name:             offer.Name,
		FundingAvailable: offer.FundingAvailable,
		StartDate:        offer.StartDate,
		EndDate:          offer.EndDate,
	}
}

func discussionToModel(entry *register.DiscussionEntry) model.QualificationDiscussionHistory {
	return model.QualificationDiscussionHistory{
		ID:              entry.ID,
		QualificationID: entry.QualificationID,
		ActionTypeID:    entry.ActionTypeID,
		Notes:           entry.Notes,
		Timestamp:       entry.Timestamp,
		UserDisplayName: entry.UserDisplayName,
	}
}
