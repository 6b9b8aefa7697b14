package dispatch

import (
	"context"
	"time"

	"github.com/circulation-toolkit/sip2gateway/internal/entity"
	"github.com/circulation-toolkit/sip2gateway/internal/usecase/auth"
	"github.com/circulation-toolkit/sip2gateway/internal/usecase/circulation"
	"github.com/circulation-toolkit/sip2gateway/pkg/sip2"
)

type (
	// Renderer turns a structured response into wire text.
	Renderer interface {
		Render(resp sip2.Response, f sip2.Format) (string, error)
	}

	// Authenticator resolves and acquires upstream tokens for a session.
	Authenticator interface {
		ResolveAccessToken(ctx context.Context, s *entity.Session) (auth.Token, error)
		Login(ctx context.Context, s *entity.Session, username, password string) (auth.Token, error)
	}

	// Patrons builds patron views across backend resources.
	Patrons interface {
		PatronInformation(ctx context.Context, s *entity.Session, q circulation.PatronQuery) (*circulation.PatronInformation, error)
		PatronStatus(ctx context.Context, s *entity.Session, q circulation.PatronQuery) (*circulation.PatronInformation, error)
		EndPatronSession(ctx context.Context, s *entity.Session, patronIdentifier string) bool
	}

	// Profiles looks up and authenticates patrons.
	Profiles interface {
		GetUserByIdentifier(ctx context.Context, tok auth.Token, id string) (*circulation.User, error)
		VerifyPin(ctx context.Context, tok auth.Token, userID, pin string) (bool, error)
	}

	// Circulation performs loans, returns and renewals.
	Circulation interface {
		CheckOut(ctx context.Context, tok auth.Token, itemBarcode, userBarcode, servicePointID string) (*circulation.Loan, error)
		CheckIn(ctx context.Context, tok auth.Token, itemBarcode, servicePointID string, returned time.Time) (*circulation.CheckInResult, error)
		Renew(ctx context.Context, tok auth.Token, itemBarcode, userBarcode string) (*circulation.Loan, error)
		RenewAll(ctx context.Context, tok auth.Token, userID, userBarcode string, limit int) (circulation.RenewAllResult, error)
		GetOpenLoanByItem(ctx context.Context, tok auth.Token, itemID string) (*circulation.Loan, error)
		GetOpenRequestCount(ctx context.Context, tok auth.Token, itemID string) (int, error)
		GetServicePointID(ctx context.Context, tok auth.Token, code string) (string, error)
	}

	// Payments applies fee payments.
	Payments interface {
		Pay(ctx context.Context, tok auth.Token, p circulation.Payment) (circulation.PaymentResult, error)
	}

	// Items looks up inventory items.
	Items interface {
		GetItemByBarcode(ctx context.Context, tok auth.Token, barcode string) (*circulation.Item, error)
	}

	// Configuration reports the ACS settings of a tenant.
	Configuration interface {
		GetTenantConfiguration(ctx context.Context, tok auth.Token, tenant string) circulation.TenantConfiguration
	}
)
