package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"

	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/agent/state"
	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/agent/tooling"
)

const (
	ToolCreateContact       = "create_contact"
	ToolGetContactByName    = "get_contact_by_name"
	ToolListContacts        = "list_contacts"
	ToolAddNoteToContact    = "add_note_to_contact"
	ToolAddListingToContact = "add_listing_to_contact"
)

// CRMTools exposes the contact operations of the store as tool descriptors.
func CRMTools(store *state.Store) []tooling.Descriptor {
	return []tooling.Descriptor{
		{
			Name: ToolCreateContact,
			Desc: "Create a new CRM contact. Requires the contact's name and phone number. Returns the created contact including its generated id.",
			Params: map[string]*schema.ParameterInfo{
				"name": {
					Type:     schema.String,
					Desc:     "Full name of the contact",
					Required: true,
				},
				"phone": {
					Type:     schema.String,
					Desc:     "Phone number of the contact",
					Required: true,
				},
				"notes": {
					Type:     schema.Array,
					ElemInfo: &schema.ParameterInfo{Type: schema.String},
					Desc:     "Optional initial free-text notes",
				},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				name, _ := args["name"].(string)
				phone, _ := args["phone"].(string)
				contact := store.CreateContact(name, phone, stringSlice(args["notes"]), nil)
				return map[string]any{
					"status":  "contact_created",
					"contact": contact,
				}, nil
			},
		},
		{
			Name: ToolGetContactByName,
			Desc: "Look up a contact by name. Matching is case-insensitive but exact; partial names do not match.",
			Params: map[string]*schema.ParameterInfo{
				"name": {
					Type:     schema.String,
					Desc:     "Full name of the contact to look up",
					Required: true,
				},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				name, _ := args["name"].(string)
				contact, err := store.GetContactByName(name)
				if err != nil {
					return contactError(name), nil
				}
				return contact, nil
			},
		},
		{
			Name:   ToolListContacts,
			Desc:   "List all contacts in the CRM.",
			Params: map[string]*schema.ParameterInfo{},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				contacts := store.ListContacts()
				return map[string]any{
					"contacts": contacts,
					"count":    len(contacts),
				}, nil
			},
		},
		{
			Name: ToolAddNoteToContact,
			Desc: "Append a free-text note to a contact identified by id. Use get_contact_by_name or list_contacts to obtain the id.",
			Params: map[string]*schema.ParameterInfo{
				"id": {
					Type:     schema.String,
					Desc:     "Contact id from a previous lookup",
					Required: true,
				},
				"note": {
					Type:     schema.String,
					Desc:     "The note text to append",
					Required: true,
				},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				id, _ := args["id"].(string)
				note, _ := args["note"].(string)
				contact, err := store.AddNote(id, note)
				if err != nil {
					return contactError(id), nil
				}
				return map[string]any{
					"status":  "note_added",
					"message": fmt.Sprintf("Note %q has been added to contact %q.", note, contact.Name),
					"contact": contact,
				}, nil
			},
		},
		{
			Name: ToolAddListingToContact,
			Desc: "Append a listing (a property address) to a contact identified by id.",
			Params: map[string]*schema.ParameterInfo{
				"id": {
					Type:     schema.String,
					Desc:     "Contact id from a previous lookup",
					Required: true,
				},
				"address": {
					Type:     schema.String,
					Desc:     "Street address of the listing",
					Required: true,
				},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				id, _ := args["id"].(string)
				address, _ := args["address"].(string)
				contact, err := store.AddListing(id, address)
				if err != nil {
					return contactError(id), nil
				}
				return map[string]any{
					"status":  "listing_added",
					"message": fmt.Sprintf("Listing %q has been added to contact %q.", address, contact.Name),
					"contact": contact,
				}, nil
			},
		},
	}
}

func contactError(key string) map[string]any {
	return map[string]any{
		"error":   "contact_not_found",
		"message": fmt.Sprintf("Contact %q not found.", key),
	}
}
