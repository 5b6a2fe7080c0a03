package services

import (
	"github.com/starterapp/rkeeper-adapter/models"
	"github.com/starterapp/rkeeper-adapter/repositories"
	"github.com/starterapp/rkeeper-adapter/utils"
)

// MenuTransferService seeds a client joining an existing project with the
// modifier and modifier-group mappings its siblings already hold, so the
// shared catalog is not re-created on the platform.
type MenuTransferService struct {
	clients *repositories.ClientRepository
	menu    *repositories.MenuRepository
}

func NewMenuTransferService(clients *repositories.ClientRepository, menu *repositories.MenuRepository) *MenuTransferService {
	return &MenuTransferService{clients: clients, menu: menu}
}

// TransferToClient copies the sibling mappings the client does not have
// yet. Clients without a project or without siblings are a no-op.
func (s *MenuTransferService) TransferToClient(client *models.Client) error {
	if client.ProjectID == nil {
		return nil
	}
	siblings, err := s.clients.ProjectClients(*client.ProjectID)
	if err != nil {
		return err
	}
	donorIDs := make([]uint, 0, len(siblings))
	for _, sibling := range siblings {
		if sibling.ID != client.ID {
			donorIDs = append(donorIDs, sibling.ID)
		}
	}
	if len(donorIDs) == 0 {
		return nil
	}

	if err := s.transferModifiers(client, donorIDs); err != nil {
		return err
	}
	if err := s.transferGroups(client, donorIDs); err != nil {
		return err
	}
	utils.SyncLog(client.ClientID, "transfer").Info("Catalog mappings transferred")
	return nil
}

func (s *MenuTransferService) transferModifiers(client *models.Client, donorIDs []uint) error {
	own, err := s.menu.ModifiersByClients([]uint{client.ID})
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(own))
	for i := range own {
		have[own[i].SpecificID()] = true
	}

	donated, err := s.menu.ModifiersByClients(donorIDs)
	if err != nil {
		return err
	}
	var rows []models.Modifier
	for i := range donated {
		donor := &donated[i]
		if have[donor.SpecificID()] {
			continue
		}
		have[donor.SpecificID()] = true
		rows = append(rows, models.Modifier{
			PosID:      donor.PosID,
			ExternalID: donor.ExternalID,
			StarterID:  donor.StarterID,
			MinAmount:  donor.MinAmount,
			MaxAmount:  donor.MaxAmount,
			ClientID:   client.ID,
		})
	}
	return s.menu.CreateModifiers(rows)
}

func (s *MenuTransferService) transferGroups(client *models.Client, donorIDs []uint) error {
	own, err := s.menu.ModifierGroupsByClients([]uint{client.ID})
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(own))
	for i := range own {
		have[own[i].HashedID()] = true
	}

	donated, err := s.menu.ModifierGroupsByClients(donorIDs)
	if err != nil {
		return err
	}
	var rows []models.ModifierGroup
	for i := range donated {
		donor := &donated[i]
		if have[donor.HashedID()] {
			continue
		}
		have[donor.HashedID()] = true
		rows = append(rows, models.ModifierGroup{
			PosID:               donor.PosID,
			StarterID:           donor.StarterID,
			MinAmount:           donor.MinAmount,
			MaxAmount:           donor.MaxAmount,
			ModifierExternalIDs: donor.ModifierExternalIDs,
			ClientID:            client.ID,
		})
	}
	return s.menu.CreateModifierGroups(rows)
}
