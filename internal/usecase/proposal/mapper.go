package proposal

import (
	"github.com/samber/lo"

	"proposal-review-service/internal/domain/activity"
	domain "proposal-review-service/internal/domain/proposal"
	"proposal-review-service/internal/domain/review"
)

// toDTO maps a proposal. Template names come from the preloaded relation, or from
// templates when the documents were built in memory.
func toDTO(p *domain.Proposal, templates []activity.Template) ProposalDTO {
	names := lo.SliceToMap(templates, func(t activity.Template) (string, string) { return t.ID, t.Name })

	out := ProposalDTO{
		ID:         p.ID,
		ActivityID: p.ActivityID,
		Code:       p.Code,
		FullName:   p.FullName,
		Email:      p.Email,
		Phone:      p.Phone,
		Address:    p.Address,
		Note:       p.Note,
		State:      string(p.State),
		Status:     string(p.Status),
		Respond:    p.Respond,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	if p.Activity != nil {
		out.ActivityName = p.Activity.Name
	}
	for _, d := range p.Documents {
		name := names[d.DocumentID]
		if d.Template != nil {
			name = d.Template.Name
		}
		out.Documents = append(out.Documents, DocumentDTO{
			ID:             d.ID,
			TemplateID:     d.DocumentID,
			TemplateName:   name,
			AttachmentPath: d.AttachmentPath,
			Mimetype:       d.Mimetype,
			Pass:           d.Pass,
		})
	}
	for _, e := range p.ExtraDocuments {
		out.ExtraDocuments = append(out.ExtraDocuments, ExtraDocumentDTO{
			ID:             e.ID,
			Name:           e.Name,
			Description:    e.Description,
			AttachmentPath: e.AttachmentPath,
			Mimetype:       e.Mimetype,
		})
	}
	return out
}

func toReviewSummary(r review.Review) ReviewSummaryDTO {
	out := ReviewSummaryDTO{ID: r.ID, Comments: r.Comments, Accepted: r.Accepted, CreatedAt: r.CreatedAt}
	if r.Reviewer != nil {
		out.Reviewer = &ReviewerDTO{
			ID:       r.Reviewer.ID,
			Email:    r.Reviewer.Email,
			Username: r.Reviewer.Username,
			FullName: r.Reviewer.FullName,
			Role:     string(r.Reviewer.Role),
		}
	}
	return out
}
